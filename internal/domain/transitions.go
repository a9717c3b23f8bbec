package domain

// Actor who requests a status transition
type Actor string

const (
	ActorBusiness Actor = "business"
	ActorUser     Actor = "user"
	ActorSystem   Actor = "system" // background completion sweep
)

type transitionKey struct {
	from  BookingStatus
	actor Actor
	to    BookingStatus
}

// transitions legal (current, actor, requested) triples. Anything absent is denied.
// Canceled and Complete are terminal for every actor.
var transitions = map[transitionKey]struct{}{
	{StatusPending, ActorBusiness, StatusActive}:   {},
	{StatusPending, ActorBusiness, StatusCanceled}: {},
	{StatusActive, ActorBusiness, StatusCanceled}:  {},

	{StatusPending, ActorUser, StatusCanceled}: {},
	{StatusActive, ActorUser, StatusCanceled}:  {},

	{StatusActive, ActorSystem, StatusComplete}: {},
}

// actorTargets statuses each actor may request at all, regardless of the current one
var actorTargets = map[Actor][]BookingStatus{
	ActorBusiness: {StatusActive, StatusCanceled},
	ActorUser:     {StatusCanceled},
	ActorSystem:   {StatusComplete},
}

// CanRequest reports whether the actor may ever request the target status
func CanRequest(actor Actor, to BookingStatus) bool {
	for _, s := range actorTargets[actor] {
		if s == to {
			return true
		}
	}
	return false
}

// CanTransition reports whether the actor may move a booking from one status to another
func CanTransition(from BookingStatus, actor Actor, to BookingStatus) bool {
	_, ok := transitions[transitionKey{from: from, actor: actor, to: to}]
	return ok
}
