package queue

import "go.mongodb.org/mongo-driver/bson/primitive"

// Event payloads published to the topic exchange. Routing keys follow
// "<entity>.<action>".

type CommentCreated struct {
	CommentID primitive.ObjectID `json:"comment_id"`
	PostID    primitive.ObjectID `json:"post_id"`
	PostOwner primitive.ObjectID `json:"post_owner"`
	Author    primitive.ObjectID `json:"author"`
}

type ConnectionRequested struct {
	ConnectionID primitive.ObjectID `json:"connection_id"`
	RequesterID  primitive.ObjectID `json:"requester_id"`
	ReceiverID   primitive.ObjectID `json:"receiver_id"`
}

type ConnectionAccepted struct {
	ConnectionID primitive.ObjectID `json:"connection_id"`
	RequesterID  primitive.ObjectID `json:"requester_id"`
	ReceiverID   primitive.ObjectID `json:"receiver_id"`
}

type MessageSent struct {
	MessageID  primitive.ObjectID `json:"message_id"`
	SenderID   primitive.ObjectID `json:"sender_id"`
	ReceiverID primitive.ObjectID `json:"receiver_id"`
}
