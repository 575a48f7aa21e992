package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	InquiryPending  = "pending"
	InquiryRead     = "read"
	InquiryArchived = "archived"
)

// Inquiry is a message from sender to receiver about a listing. Status is the only read
// state that is persisted.
type Inquiry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Property  primitive.ObjectID `bson:"property" json:"property"`
	Sender    primitive.ObjectID `bson:"sender" json:"sender"`
	Receiver  primitive.ObjectID `bson:"receiver" json:"receiver"`
	Message   string             `bson:"message" json:"message"`
	Phone     string             `bson:"phone" json:"phone"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (i *Inquiry) IsParticipant(userID primitive.ObjectID) bool {
	return i.Sender == userID || i.Receiver == userID
}

// InquiryView expands the property and both participants.
type InquiryView struct {
	Inquiry         `bson:",inline"`
	PropertyDetails *PropertySummary `bson:"propertyDetails,omitempty" json:"property,omitempty"`
	SenderDetails   *UserSummary     `bson:"senderDetails,omitempty" json:"sender,omitempty"`
	ReceiverDetails *UserSummary     `bson:"receiverDetails,omitempty" json:"receiver,omitempty"`
}
