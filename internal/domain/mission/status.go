package mission

import (
	"time"

	"github.com/groupdiary/backend/internal/domain/shared"
)

// Status represents the lifecycle status of a mission.
// Transitions only move forward: READY -> ACTIVE -> FINISH.
type Status string

const (
	StatusReady  Status = "READY"
	StatusActive Status = "ACTIVE"
	StatusFinish Status = "FINISH"
)

// Numeric status codes used by listing filters. 0 selects all statuses.
const (
	StatusCodeAll    = 0
	StatusCodeReady  = 1
	StatusCodeActive = 2
	StatusCodeFinish = 3
)

// DefaultRemainingDays is the nominal D-day assigned to missions without a
// configured period, used for display and sorting.
const DefaultRemainingDays = 365

// Mission dates are anchored to a fixed local zone regardless of server time.
var missionZone = time.FixedZone("KST", 9*60*60)

// StatusFromCode resolves a numeric filter code to a status.
// Returns the status and false for StatusCodeAll or an unknown code.
func StatusFromCode(code int) (Status, bool) {
	switch code {
	case StatusCodeReady:
		return StatusReady, true
	case StatusCodeActive:
		return StatusActive, true
	case StatusCodeFinish:
		return StatusFinish, true
	default:
		return "", false
	}
}

// Code returns the numeric code for a status
func (s Status) Code() int {
	switch s {
	case StatusReady:
		return StatusCodeReady
	case StatusActive:
		return StatusCodeActive
	case StatusFinish:
		return StatusCodeFinish
	default:
		return StatusCodeAll
	}
}

// DeriveStatus computes a mission's status from its configured period and the
// current instant. A mission without a period is ACTIVE from creation and has
// no natural expiry. This is a pure function; every read path derives status
// through it rather than trusting a stored column.
func DeriveStatus(existPeriod bool, start, end *time.Time, now time.Time) Status {
	if !existPeriod || start == nil || end == nil {
		return StatusActive
	}
	if now.Before(*start) {
		return StatusReady
	}
	if now.After(*end) {
		return StatusFinish
	}
	return StatusActive
}

// RemainingDays computes the D-day for a mission: the whole-day difference
// between today and the end date in the mission zone. Unbounded missions get
// DefaultRemainingDays.
func RemainingDays(existPeriod bool, end *time.Time, now time.Time) int {
	if !existPeriod || end == nil {
		return DefaultRemainingDays
	}
	today := startOfDay(now.In(missionZone))
	endDay := startOfDay(end.In(missionZone))
	return int(endDay.Sub(today).Hours() / 24)
}

// AnchorPeriod converts calendar start/end dates into the active window
// boundaries: start-of-day of the start date and 23:59:59 of the end date,
// both in the mission zone.
func AnchorPeriod(startDate, endDate time.Time) (time.Time, time.Time, error) {
	start := startOfDay(startDate.In(missionZone))
	end := time.Date(endDate.In(missionZone).Year(), endDate.In(missionZone).Month(), endDate.In(missionZone).Day(),
		23, 59, 59, 0, missionZone)
	if end.Before(start) {
		return time.Time{}, time.Time{}, shared.NewDomainError("INVALID_MISSION_PERIOD", "Mission end date is before start date")
	}
	return start, end, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
