package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"organizer",
			"meeting_name",
			"date",
			"start_time",
			"end_time",
			"room",
			"meeting_type",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"organizer": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"meeting_name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 200,
			},

			"date": bson.M{
				"bsonType": "string",
			},

			"start_time": bson.M{
				"bsonType": "string",
				"pattern":  "^([01][0-9]|2[0-3]):[0-5][0-9]$",
			},

			"end_time": bson.M{
				"bsonType": "string",
				"pattern":  "^([01][0-9]|2[0-3]):[0-5][0-9]$",
			},

			"location": bson.M{
				"bsonType": "string",
			},

			"room": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"meeting_type": bson.M{
				"bsonType": "string",
				"enum": []string{
					"Online",
					"Offline",
				},
			},

			"capacity": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},

			"notes": bson.M{
				"bsonType": "string",
			},

			"meeting_link": bson.M{
				"bsonType": "string",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
