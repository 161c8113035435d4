package validators

import "go.mongodb.org/mongo-driver/bson"

var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"email",
			"verified",
			"is_approved",
			"is_google_user",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"email": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 254,
			},

			"phone": bson.M{
				"bsonType": "string",
			},

			"password_hash": bson.M{
				"bsonType": "string",
			},

			"verification_code": bson.M{
				"bsonType": "string",
			},

			"verified": bson.M{
				"bsonType": "bool",
			},

			"is_approved": bson.M{
				"bsonType": "bool",
			},

			"is_google_user": bson.M{
				"bsonType": "bool",
			},

			"avatar": bson.M{
				"bsonType": "string",
			},

			"department": bson.M{
				"bsonType": "string",
			},

			"reset_password_token": bson.M{
				"bsonType": "string",
			},

			"reset_password_expires": bson.M{
				"bsonType": "date",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
