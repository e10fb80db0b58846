package rules

import "github.com/Eursukkul/booking-microservice/reservation-service/internal/models"

// Transition is a requested status change of a stored reservation.
type Transition struct {
	Current models.ReservationStatus
	Target  models.ReservationStatus
}

// CheckTransition validates a status-only update. Only finished is treated
// as terminal; any other move between known states is accepted, including
// self-transitions and booked -> finished.
func CheckTransition(current, target models.ReservationStatus) error {
	return Run(Transition{Current: current, Target: target}, knownStatus, notFinished)
}

func knownStatus(t Transition) error {
	if !t.Target.Known() {
		return &RuleViolation{Code: CodeUnknownStatus, Message: "Status unknown."}
	}
	return nil
}

func notFinished(t Transition) error {
	if t.Current == models.StatusFinished {
		return &RuleViolation{Code: CodeFinished, Message: "Cannot change a reservation with a finished status."}
	}
	return nil
}
