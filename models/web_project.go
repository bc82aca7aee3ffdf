package models

// EpicStatus Epic状态枚举
type EpicStatus string

const (
	EpicStatusActive   EpicStatus = "active"
	EpicStatusComplete EpicStatus = "complete"
	EpicStatusOnHold   EpicStatus = "on-hold"
)

// WebProject 网站开发项目 (来自WEB项目的Epic)
type WebProject struct {
	ID         string     `json:"id"`
	EpicKey    string     `json:"epicKey"`
	EpicName   string     `json:"epicName"`
	EpicStatus EpicStatus `json:"epicStatus"`

	// 任务计数 notStarted + inProgress + completed == totalTasks
	TotalTasks      int `json:"totalTasks"`
	NotStarted      int `json:"notStarted"`
	InProgress      int `json:"inProgress"`
	Completed       int `json:"completed"`
	PercentComplete int `json:"percentComplete"`

	StartDate  string `json:"startDate,omitempty"`
	DueDate    string `json:"dueDate,omitempty"`
	IsOffTrack bool   `json:"isOffTrack"`
}

// Field 按JSON字段名取值
func (p WebProject) Field(key string) any {
	switch key {
	case "id":
		return p.ID
	case "epicKey":
		return p.EpicKey
	case "epicName":
		return p.EpicName
	case "epicStatus":
		return string(p.EpicStatus)
	case "totalTasks":
		return p.TotalTasks
	case "notStarted":
		return p.NotStarted
	case "inProgress":
		return p.InProgress
	case "completed":
		return p.Completed
	case "percentComplete":
		return p.PercentComplete
	case "startDate":
		return optional(p.StartDate)
	case "dueDate":
		return optional(p.DueDate)
	case "isOffTrack":
		return p.IsOffTrack
	}
	return nil
}
