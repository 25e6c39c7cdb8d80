package types

// Snapshot is the body of a sync request. Owner ids are absent: ownership
// always comes from the verified token.
type Snapshot struct {
	Categories   []Category    `json:"categories"`
	Projects     []Project     `json:"projects"`
	Tasks        []Task        `json:"tasks"`
	Rewards      *Rewards      `json:"rewards,omitempty"`
	ActivityLogs []ActivityLog `json:"activityLogs"`
}

type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

type Project struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Icon     string    `json:"icon"`
	Color    string    `json:"color"`
	Sections []Section `json:"sections"`
}

type Section struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ProjectID string `json:"projectId"`
	Order     int    `json:"order"`
}

type Task struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Category      string     `json:"category"`
	ProjectID     string     `json:"projectId"`
	SectionID     *string    `json:"sectionId,omitempty"`
	RewardType    string     `json:"rewardType"`
	RewardAmount  int        `json:"rewardAmount"`
	Completed     bool       `json:"completed"`
	Priority      int        `json:"priority"`
	CreatedAt     *Timestamp `json:"createdAt,omitempty"`
	ScheduledDate *Timestamp `json:"scheduledDate,omitempty"`
	CompletedAt   *Timestamp `json:"completedAt,omitempty"`
}

type Rewards struct {
	Points  int `json:"points"`
	Minutes int `json:"minutes"`
	Rubles  int `json:"rubles"`
}

type ActivityLog struct {
	ID          string     `json:"id"`
	Action      string     `json:"action"`
	Description string     `json:"description"`
	Timestamp   *Timestamp `json:"timestamp,omitempty"`
}

// DataResponse is the fetch-all payload. Task and activity log timestamps
// go out under the snake_case keys the web client reads on load.
type DataResponse struct {
	Categories   []Category          `json:"categories"`
	Projects     []Project           `json:"projects"`
	Tasks        []TaskRecord        `json:"tasks"`
	Rewards      *Rewards            `json:"rewards"`
	ActivityLogs []ActivityLogRecord `json:"activityLogs"`
}

type TaskRecord struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Category      string     `json:"category"`
	ProjectID     string     `json:"projectId"`
	SectionID     *string    `json:"sectionId"`
	RewardType    string     `json:"rewardType"`
	RewardAmount  int        `json:"rewardAmount"`
	Completed     bool       `json:"completed"`
	Priority      int        `json:"priority"`
	CreatedAt     *Timestamp `json:"created_at"`
	ScheduledDate *Timestamp `json:"scheduled_date"`
	CompletedAt   *Timestamp `json:"completed_at"`
}

type ActivityLogRecord struct {
	ID          string     `json:"id"`
	Action      string     `json:"action"`
	Description string     `json:"description"`
	CreatedAt   *Timestamp `json:"created_at"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
