package rpc

import (
	"github.com/dmitrijs2005/watchkeeper/internal/models"
)

type AuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

// InsertRequest carries a draft as typed. Rating is a float so that the
// server sees non-integral input and can reject it.
type InsertRequest struct {
	MediaType       string  `json:"media_type"`
	Name            string  `json:"name"`
	Rating          float64 `json:"rating"`
	WouldWatchAgain bool    `json:"would_watch_again"`
}

type DeleteRequest struct {
	IDs []int64 `json:"ids"`
}

type Item struct {
	ID              int64  `json:"id"`
	MediaType       string `json:"media_type"`
	Name            string `json:"name"`
	Rating          int    `json:"rating"`
	WouldWatchAgain bool   `json:"would_watch_again"`
}

// Response is the envelope returned by every non-auth call.
type Response struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	Code         string `json:"code,omitempty"`
	RowsAffected int64  `json:"rows_affected"`
	Data         []Item `json:"data,omitempty"`
}

func NewInsertRequest(d models.Draft) *InsertRequest {
	return &InsertRequest{
		MediaType:       string(d.MediaType),
		Name:            d.Name,
		Rating:          d.Rating,
		WouldWatchAgain: d.WouldWatchAgain,
	}
}

// Draft converts the request back into a draft without any checks.
func (r *InsertRequest) Draft() models.Draft {
	return models.Draft{
		MediaType:       models.MediaType(r.MediaType),
		Name:            r.Name,
		Rating:          r.Rating,
		WouldWatchAgain: r.WouldWatchAgain,
	}
}

func NewResponse(e *models.Envelope) *Response {
	r := &Response{
		Success:      e.Success,
		Message:      e.Message,
		Code:         string(e.Code),
		RowsAffected: e.RowsAffected,
	}
	for _, it := range e.Items {
		id, _ := it.ID.Value()
		r.Data = append(r.Data, Item{
			ID:              id,
			MediaType:       string(it.MediaType),
			Name:            it.Name,
			Rating:          it.Rating,
			WouldWatchAgain: it.WouldWatchAgain,
		})
	}
	return r
}

// Envelope converts a wire response into the client-side envelope. Records
// coming from the store always carry an assigned id.
func (r *Response) Envelope() *models.Envelope {
	e := &models.Envelope{
		Success:      r.Success,
		Message:      r.Message,
		Code:         models.Code(r.Code),
		RowsAffected: r.RowsAffected,
	}
	if len(r.Data) > 0 {
		e.Items = make([]models.WatchListItem, 0, len(r.Data))
	}
	for _, it := range r.Data {
		e.Items = append(e.Items, models.WatchListItem{
			ID:              models.Assigned(it.ID),
			MediaType:       models.MediaType(it.MediaType),
			Name:            it.Name,
			Rating:          it.Rating,
			WouldWatchAgain: it.WouldWatchAgain,
		})
	}
	return e
}
