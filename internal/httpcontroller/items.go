package httpcontroller

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/foundbox/foundbox/internal/conf"
	"github.com/foundbox/foundbox/internal/errors"
	"github.com/foundbox/foundbox/internal/store"
)

// itemResponse is the JSON form of a record.
type itemResponse struct {
	ID         int    `json:"id"`
	Category   string `json:"category"`
	FoundDate  string `json:"found_date"`
	ExpiryDate string `json:"expiry_date"`
	Note       string `json:"note"`
	ImagePath  string `json:"image_path,omitempty"`
	Expired    bool   `json:"expired"`
}

func toItemResponse(item *store.Item) itemResponse {
	return itemResponse{
		ID:         item.ID,
		Category:   item.Category,
		FoundDate:  item.FoundDate.Format(conf.DateLayout),
		ExpiryDate: item.ExpiryDate.Format(conf.DateLayout),
		Note:       item.Note,
		ImagePath:  item.ImagePath,
	}
}

func (c *Controller) toItemResponses(items []store.Item) []itemResponse {
	today := c.Settings.Today()
	out := make([]itemResponse, 0, len(items))
	for i := range items {
		resp := toItemResponse(&items[i])
		resp.Expired = items[i].Expired(today)
		out = append(out, resp)
	}
	return out
}

// recordsPage renders every record with photos and expiry highlighting.
func (c *Controller) recordsPage(ctx echo.Context) error {
	items, err := c.Store.LoadAll()
	if err != nil {
		return c.internalError(ctx, err)
	}
	return ctx.Render(http.StatusOK, "records.html", map[string]any{
		"Title": "Records",
		"Nav":   "records",
		"Items": c.toItemResponses(items),
	})
}

// searchPage renders the free-text search. An empty query renders no results
// and prompts the user to type one.
func (c *Controller) searchPage(ctx echo.Context) error {
	query := ctx.QueryParam("q")
	var items []store.Item
	if query != "" {
		var err error
		items, err = c.Store.Search(query)
		if err != nil {
			return c.internalError(ctx, err)
		}
	}
	return ctx.Render(http.StatusOK, "search.html", map[string]any{
		"Title": "Search",
		"Nav":   "search",
		"Query": query,
		"Items": c.toItemResponses(items),
	})
}

// collectForm handles the browse view's "collected" button and redirects back
// to the records page.
func (c *Controller) collectForm(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, "invalid record id")
	}
	if err := c.Store.Delete(id); err != nil && !errors.Is(err, store.ErrNotFound) {
		return c.internalError(ctx, err)
	}
	return ctx.Redirect(http.StatusSeeOther, "/records")
}

// listItems returns every record.
func (c *Controller) listItems(ctx echo.Context) error {
	items, err := c.Store.LoadAll()
	if err != nil {
		return c.internalError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, c.toItemResponses(items))
}

// searchItems returns records matching the free-text query. An empty query
// returns an empty result set, mirroring the search page.
func (c *Controller) searchItems(ctx echo.Context) error {
	query := ctx.QueryParam("q")
	if query == "" {
		return ctx.JSON(http.StatusOK, []itemResponse{})
	}
	items, err := c.Store.Search(query)
	if err != nil {
		return c.internalError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, c.toItemResponses(items))
}

// deleteItem marks a record collected: the record and its saved photo go
// away.
func (c *Controller) deleteItem(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, "invalid record id")
	}
	if err := c.Store.Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return jsonError(ctx, http.StatusNotFound, "record not found")
		}
		return c.internalError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}
