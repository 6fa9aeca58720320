package fit

import "github.com/muktihari/fit/profile/typedef"

// FileTypeActivity is file_id.type for activity files.
const FileTypeActivity = uint8(typedef.FileActivity)

// Event numbers from event.event that dive logs care about.
const (
	EventTimer                 uint8 = 0
	EventHRHighAlert           uint8 = 13
	EventHRLowAlert            uint8 = 14
	EventTimeDurationAlert     uint8 = 23
	EventDistanceDurationAlert uint8 = 24
	EventUserMarker            uint8 = 32
	EventDiveAlert             uint8 = 56
	EventDiveGasSwitched       uint8 = 57
)

// SportDiving is the sport value Garmin Descent devices write for dives.
const SportDiving uint8 = 53

// SportName returns the profile name of a sport value, such as "diving", or
// "" when the value is invalid or unknown to the profile.
func SportName(sport uint8) string {
	if sport == basetypeEnumInvalid {
		return ""
	}
	return profileName(typedef.Sport(sport).String())
}

// SubSportName returns the profile name of a sub-sport value, such as
// "apnea_diving", or "" when the value is invalid or unknown.
func SubSportName(subSport uint8) string {
	if subSport == basetypeEnumInvalid {
		return ""
	}
	return profileName(typedef.SubSport(subSport).String())
}

const basetypeEnumInvalid uint8 = 0xFF

// profileName keeps snake_case profile names and drops the placeholder text
// the profile produces for values it does not define.
func profileName(name string) string {
	if name == "" {
		return ""
	}
	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '_' {
			return ""
		}
	}
	return name
}
