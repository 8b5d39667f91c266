package validators

import "go.mongodb.org/mongo-driver/bson"

var SlotHoldValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"holder",
			"expires_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}_([01][0-9]|2[0-3]):[0-5][0-9]$`,
			},

			"holder": bson.M{
				"bsonType": "string",
			},

			"expires_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
