// Package engagement implements the reactor-set toggle shared by post likes,
// post saves and follow edges. The same operation is exposed once and reused
// at every call site: Toggle defines the reference semantics over a plain
// slice, TogglePipeline is the equivalent single atomic MongoDB update.
package engagement

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Toggle flips membership of actor in the set. If actor is present it is
// removed (added=false), otherwise appended (added=true). The input slice is
// not modified. Toggling twice restores the original set.
func Toggle(set []string, actor string) (newSet []string, added bool) {
	for i, id := range set {
		if id == actor {
			out := make([]string, 0, len(set)-1)
			out = append(out, set[:i]...)
			out = append(out, set[i+1:]...)
			return out, false
		}
	}
	out := make([]string, 0, len(set)+1)
	out = append(out, set...)
	out = append(out, actor)
	return out, true
}

// Contains reports whether actor is a member of the set
func Contains(set []string, actor string) bool {
	for _, id := range set {
		if id == actor {
			return true
		}
	}
	return false
}

// TogglePipeline builds an aggregation-pipeline update that flips membership
// of actor in the named array field of a document. Because the branch between
// add and remove happens inside a single update, two requests racing on the
// same document cannot lose an update the way a read-then-write would.
func TogglePipeline(field, actor string) mongo.Pipeline {
	// Missing fields are treated as the empty set.
	current := bson.D{{Key: "$ifNull", Value: bson.A{"$" + field, bson.A{}}}}
	return mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{{Key: field, Value: bson.D{{Key: "$cond", Value: bson.D{
			{Key: "if", Value: bson.D{{Key: "$in", Value: bson.A{actor, current}}}},
			{Key: "then", Value: bson.D{{Key: "$setDifference", Value: bson.A{current, bson.A{actor}}}}},
			{Key: "else", Value: bson.D{{Key: "$concatArrays", Value: bson.A{current, bson.A{actor}}}}},
		}}}}}}},
	}
}
