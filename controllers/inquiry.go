package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcode-github/urban_nest/backend/apperrors"
	"github.com/dcode-github/urban_nest/backend/logger"
	"github.com/dcode-github/urban_nest/backend/models"
	"github.com/dcode-github/urban_nest/backend/store"
	"github.com/dcode-github/urban_nest/backend/utils"
)

type inquiryInput struct {
	Property string `json:"property" validate:"required"`
	Receiver string `json:"receiver"`
	Message  string `json:"message" validate:"required,max=1000"`
	Phone    string `json:"phone" validate:"required"`
}

func (in *inquiryInput) Normalize() {
	utils.TrimString(&in.Property)
	utils.TrimString(&in.Receiver)
	utils.TrimString(&in.Message)
	utils.TrimString(&in.Phone)
}

type InquiryController struct {
	store *store.Store
}

func NewInquiryController(st *store.Store) *InquiryController {
	return &InquiryController{store: st}
}

// CreateInquiry addresses the property owner unless a receiver is given.
func (c *InquiryController) CreateInquiry() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in inquiryInput
		if err := utils.DecodeJSON(r, &in); err != nil {
			utils.WriteError(w, r, err)
			return
		}

		propertyID, err := utils.ParseObjectID(in.Property, "Property")
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		property, err := c.store.Properties.FindByID(r.Context(), propertyID)
		if err != nil {
			utils.WriteError(w, r, notFound(err, "Property"))
			return
		}

		receiver := property.Owner
		if in.Receiver != "" {
			if receiver, err = primitive.ObjectIDFromHex(in.Receiver); err != nil {
				utils.WriteError(w, r, apperrors.BadRequest("Invalid receiver", err))
				return
			}
		}

		inquiry := &models.Inquiry{
			Property: propertyID,
			Sender:   caller(r).ID,
			Receiver: receiver,
			Message:  in.Message,
			Phone:    in.Phone,
		}
		if err := c.store.Inquiries.Create(r.Context(), inquiry); err != nil {
			utils.WriteError(w, r, err)
			return
		}

		logger.Info().Str("inquiry", inquiry.ID.Hex()).Str("property", propertyID.Hex()).Msg("inquiry created")
		utils.WriteJSON(w, http.StatusCreated, inquiry)
	}
}

func (c *InquiryController) GetSentInquiries() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inquiries, err := c.store.Inquiries.ListBySender(r.Context(), caller(r).ID)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, inquiries)
	}
}

func (c *InquiryController) GetReceivedInquiries() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inquiries, err := c.store.Inquiries.ListByReceiver(r.Context(), caller(r).ID)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, inquiries)
	}
}

// MarkAsRead is reserved to the receiver.
func (c *InquiryController) MarkAsRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inquiry, ok := c.load(w, r)
		if !ok {
			return
		}
		if inquiry.Receiver != caller(r).ID {
			utils.WriteError(w, r, apperrors.Forbidden("Not authorized"))
			return
		}

		updated, err := c.store.Inquiries.SetStatus(r.Context(), inquiry.ID, models.InquiryRead)
		if err != nil {
			utils.WriteError(w, r, notFound(err, "Inquiry"))
			return
		}
		utils.WriteJSON(w, http.StatusOK, updated)
	}
}

func (c *InquiryController) DeleteInquiry() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inquiry, ok := c.load(w, r)
		if !ok {
			return
		}
		if !inquiry.IsParticipant(caller(r).ID) {
			utils.WriteError(w, r, apperrors.Forbidden("Not authorized"))
			return
		}

		if err := c.store.Inquiries.Delete(r.Context(), inquiry.ID); err != nil {
			utils.WriteError(w, r, notFound(err, "Inquiry"))
			return
		}
		utils.WriteMessage(w, http.StatusOK, "Inquiry removed")
	}
}

func (c *InquiryController) load(w http.ResponseWriter, r *http.Request) (*models.Inquiry, bool) {
	id, err := utils.ParseObjectID(mux.Vars(r)["id"], "Inquiry")
	if err != nil {
		utils.WriteError(w, r, err)
		return nil, false
	}
	inquiry, err := c.store.Inquiries.FindByID(r.Context(), id)
	if err != nil {
		utils.WriteError(w, r, notFound(err, "Inquiry"))
		return nil, false
	}
	return inquiry, true
}
