package models

import "github.com/julianstephens/habitify/internal/constants"

// TemplateSource identifies which catalog a template came from
type TemplateSource string

const (
	TemplatePredefined TemplateSource = "predefined"
	TemplateCustom     TemplateSource = "custom"
)

// Template is a predefined or user-defined habit blueprint used at creation time
type Template struct {
	ID              int64               `json:"id"`
	Source          TemplateSource      `json:"source"`
	UserID          int64               `json:"user_id,omitempty"`
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	Category        string              `json:"category"`
	Frequency       constants.Frequency `json:"frequency"`
	ColorCode       string              `json:"color_code"`
	IconName        string              `json:"icon_name"`
	ReminderTime    string              `json:"reminder_time"`
	ReminderEnabled bool                `json:"reminder_enabled"`
}
