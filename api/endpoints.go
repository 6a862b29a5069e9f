package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fesgura/mathtrade-logistics-sub000/models"
)

// Typed operations over the generic request function. Every list endpoint is
// an idempotent read; a stale response landing late can only repeat state the
// next poll corrects, so in-flight reads are never cancelled.

// decodeList unmarshals a list response. An empty 2xx body is a legitimate
// null result and decodes to no elements, not an error.
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	if raw == nil {
		return nil, nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// decodeBox unmarshals a single-box response, treating an empty body as a
// null box the same way decodeList treats empty lists.
func decodeBox(raw json.RawMessage) (*models.Box, error) {
	if raw == nil {
		return nil, nil
	}
	var box models.Box
	if err := json.Unmarshal(raw, &box); err != nil {
		return nil, err
	}
	return &box, nil
}

func (c *Client) FetchItems(ctx context.Context) ([]models.Item, error) {
	raw, err := c.Execute(ctx, http.MethodGet, "logistics/items/", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Item](raw)
}

func (c *Client) FetchBoxes(ctx context.Context) ([]models.Box, error) {
	raw, err := c.Execute(ctx, http.MethodGet, "logistics/boxes/", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Box](raw)
}

type newBoxPayload struct {
	DestinationID int   `json:"destination_id"`
	ItemIds       []int `json:"items"`
}

func (c *Client) CreateBox(ctx context.Context, destinationId int, itemIds []int) (*models.Box, error) {
	if itemIds == nil {
		itemIds = []int{}
	}
	raw, err := c.Execute(ctx, http.MethodPost, "logistics/boxes/",
		newBoxPayload{DestinationID: destinationId, ItemIds: itemIds})
	if err != nil {
		return nil, err
	}
	return decodeBox(raw)
}

func (c *Client) DeleteBox(ctx context.Context, boxId int) error {
	_, err := c.Execute(ctx, http.MethodDelete, fmt.Sprintf("logistics/boxes/%d/", boxId), nil)
	return err
}

type boxItemsPayload struct {
	ItemIds []int `json:"items"`
}

// UpdateBoxItems replaces the box's entire membership. The endpoint has
// whole-list semantics: the ids sent become the box contents, last writer
// wins, no diffing or conflict detection on the server side.
func (c *Client) UpdateBoxItems(ctx context.Context, boxId int, itemIds []int) (*models.Box, error) {
	if itemIds == nil {
		itemIds = []int{}
	}
	raw, err := c.Execute(ctx, http.MethodPatch, fmt.Sprintf("logistics/boxes/%d/", boxId),
		boxItemsPayload{ItemIds: itemIds})
	if err != nil {
		return nil, err
	}
	return decodeBox(raw)
}

type bulkStatusPayload struct {
	AssignedTradeCodes []int             `json:"assigned_trade_codes"`
	Status             models.ItemStatus `json:"status"`
	ChangedBy          int               `json:"changed_by"`
}

// BulkUpdateItemStatus moves every listed item to the target status. Callers
// are expected to have filtered out items already satisfying the target, so
// a re-confirmed batch issues no duplicate calls.
func (c *Client) BulkUpdateItemStatus(ctx context.Context, assignedTradeCodes []int, status models.ItemStatus) error {
	if len(assignedTradeCodes) == 0 {
		return nil
	}
	_, err := c.Execute(ctx, http.MethodPost, "logistics/items/bulk-status/", bulkStatusPayload{
		AssignedTradeCodes: assignedTradeCodes,
		Status:             status,
		ChangedBy:          c.session.UserId(),
	})
	return err
}

func (c *Client) FetchTrades(ctx context.Context) ([]models.Trade, error) {
	raw, err := c.Execute(ctx, http.MethodGet, "trades/", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Trade](raw)
}

func (c *Client) FetchWindows(ctx context.Context) ([]models.Window, error) {
	raw, err := c.Execute(ctx, http.MethodGet, "windows/", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Window](raw)
}

func (c *Client) FetchReadyToPickup(ctx context.Context) ([]models.WindowUser, error) {
	raw, err := c.Execute(ctx, http.MethodGet, "users/ready-to-pickup/", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.WindowUser](raw)
}

type windowUserStatusPayload struct {
	Status models.WindowUserStatus `json:"status"`
}

func (c *Client) UpdateWindowUserStatus(ctx context.Context, userId int, status models.WindowUserStatus) error {
	_, err := c.Execute(ctx, http.MethodPatch, fmt.Sprintf("users/%d/pickup-status/", userId),
		windowUserStatusPayload{Status: status})
	return err
}
