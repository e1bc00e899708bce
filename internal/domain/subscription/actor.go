package subscription

// SystemActorName is the identity recorded on subscriptions processed
// automatically by the engine on behalf of an AUTO-validated plan.
const SystemActorName = "system"

type actorKind int

const (
	actorUser actorKind = iota
	actorSystem
)

// Actor identifies who drives an engine operation: a concrete user or the
// engine itself during auto-validation. It replaces implicit magic-string
// processor identities.
type Actor struct {
	kind   actorKind
	userID string
}

// UserActor returns an actor for a concrete user.
func UserActor(userID string) Actor {
	return Actor{kind: actorUser, userID: userID}
}

// SystemActor returns the engine's own identity.
func SystemActor() Actor {
	return Actor{kind: actorSystem}
}

func (a Actor) IsSystem() bool {
	return a.kind == actorSystem
}

// String returns the identity recorded in processedBy/subscribedBy fields.
func (a Actor) String() string {
	if a.kind == actorSystem {
		return SystemActorName
	}
	return a.userID
}
