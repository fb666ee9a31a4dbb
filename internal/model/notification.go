package model

import (
	"time"
)

// NotificationType defines the type of notification.
type NotificationType string

// Notification types.
const (
	NotifyThirsty  NotificationType = "thirsty"
	NotifyCritical NotificationType = "critical"
	NotifyTest     NotificationType = "test"
)

// Notification represents a notification to be sent.
type Notification struct {
	Type      NotificationType  `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	PlantID   string            `json:"plant_id,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// NewNotification creates a new notification.
func NewNotification(t NotificationType, title, message string) *Notification {
	return &Notification{
		Type:      t,
		Title:     title,
		Message:   message,
		Fields:    make(map[string]string),
		Timestamp: time.Now(),
	}
}

// WithField adds a field to the notification.
func (n *Notification) WithField(key, value string) *Notification {
	if n.Fields == nil {
		n.Fields = make(map[string]string)
	}
	n.Fields[key] = value
	return n
}

// WithPlant tags the notification with a plant id.
func (n *Notification) WithPlant(id string) *Notification {
	n.PlantID = id
	return n
}

// Icon returns an emoji icon for the notification type.
func (n *Notification) Icon() string {
	switch n.Type {
	case NotifyThirsty:
		return "💧"
	case NotifyCritical:
		return "🥀"
	case NotifyTest:
		return "🧪"
	default:
		return "🔔"
	}
}

// TypeLabel returns a human-readable label for the notification type.
func (n *Notification) TypeLabel() string {
	switch n.Type {
	case NotifyThirsty:
		return "Watering Reminder"
	case NotifyCritical:
		return "Plant In Trouble"
	case NotifyTest:
		return "Test Notification"
	default:
		return "Notification"
	}
}
