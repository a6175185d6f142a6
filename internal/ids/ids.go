// Package ids generates and validates entity identifiers. Identifiers are
// 24 character hex ObjectIDs regardless of which store backs the service.
package ids

import "go.mongodb.org/mongo-driver/bson/primitive"

func New() string {
	return primitive.NewObjectID().Hex()
}

func Valid(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}
