package music

import (
	"fmt"

	"github.com/movable/backend/internal/domain/shared"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 3600
	hoursPerDay      = 24
)

// Length is a play time in seconds
type Length int

// NewLength creates a length from hours, minutes and seconds
func NewLength(hours, minutes, seconds int) (Length, error) {
	if hours < 0 {
		return 0, shared.NewDomainError("INVALID_LENGTH", "Hours mustn't be negative number.")
	}
	if minutes < 0 || minutes >= secondsPerMinute {
		return 0, shared.NewDomainError("INVALID_LENGTH", "Minutes must be between 0 and 59.")
	}
	if seconds < 0 || seconds >= secondsPerMinute {
		return 0, shared.NewDomainError("INVALID_LENGTH", "Seconds must be between 0 and 59.")
	}
	return Length(hours*secondsPerHour + minutes*secondsPerMinute + seconds), nil
}

// Hours returns the whole hours of the length
func (l Length) Hours() int { return int(l) / secondsPerHour }

// Minutes returns the minutes past the whole hours
func (l Length) Minutes() int { return int(l) % secondsPerHour / secondsPerMinute }

// Seconds returns the seconds past the whole minutes
func (l Length) Seconds() int { return int(l) % secondsPerMinute }

// String formats the length as H:MM:SS, or D:HH:MM:SS from one day on
func (l Length) String() string {
	days, hours := l.Hours()/hoursPerDay, l.Hours()%hoursPerDay
	if days > 0 {
		return fmt.Sprintf("%d:%02d:%02d:%02d", days, hours, l.Minutes(), l.Seconds())
	}
	return fmt.Sprintf("%d:%02d:%02d", hours, l.Minutes(), l.Seconds())
}
