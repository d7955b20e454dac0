package act

import (
	"fmt"

	"github.com/anthdm/hollywood/actor"
)

// FeedKind and FeedID name the top level feed actor. Stations are spawned
// as its children.
const (
	FeedKind = "wsfeed"
	FeedID   = "1"
)

func GetStationPID(station string) *actor.PID {
	return actor.NewPID("local", fmt.Sprintf("%s/%s/station/%s", FeedKind, FeedID, station))
}

func GetPublishPID(station string) *actor.PID {
	return actor.NewPID("local", fmt.Sprintf("%s/%s/station/%s/publish/%s", FeedKind, FeedID, station, station))
}
