package controllers

import (
	"strconv"

	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/app/resources"
	"github.com/shashiranjanraj/souqhup/app/services"
	"github.com/shashiranjanraj/souqhup/pkg/ctx"
	"github.com/shashiranjanraj/souqhup/pkg/resource"
)

// InquiryController serves the buyer inquiries of the merchant dashboard.
type InquiryController struct {
	insights *services.Insights
	chats    *services.ChatService
	sessions *services.SessionService
}

func NewInquiryController(insights *services.Insights, chats *services.ChatService, sessions *services.SessionService) *InquiryController {
	return &InquiryController{insights: insights, chats: chats, sessions: sessions}
}

func (i *InquiryController) Index(c *ctx.Context) {
	resource.CollectionOf[models.Inquiry](resources.InquiryResource{}, i.insights.List()).Respond(c.W)
}

func (i *InquiryController) inquiry(c *ctx.Context) (models.Inquiry, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		fail(c, services.ErrUnknownInquiry, nil)
		return models.Inquiry{}, false
	}
	inq, err := i.insights.Get(id)
	if err != nil {
		fail(c, err, nil)
		return inq, false
	}
	return inq, true
}

// Insight asks for a lead summary of the inquiry.
func (i *InquiryController) Insight(c *ctx.Context) {
	state, ok := signedIn(c, i.sessions)
	if !ok {
		return
	}
	inq, ok := i.inquiry(c)
	if !ok {
		return
	}

	inq, err := i.insights.Analyze(c.Context(), c.DeviceID(), state.Merchant.Name, inq.ID)
	if err != nil {
		fail(c, err, nil)
		return
	}
	resource.New[models.Inquiry](resources.InquiryResource{}, inq).Respond(c.W)
}

// Respond opens a chat with the buyer of the inquiry.
func (i *InquiryController) Respond(c *ctx.Context) {
	inq, ok := i.inquiry(c)
	if !ok {
		return
	}
	c.Created(i.chats.Open(c.DeviceID(), "", inq.UserName, nil))
}
