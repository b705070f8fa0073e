package httpcontroller

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// classifyResponse is returned by the classify endpoint.
type classifyResponse struct {
	Available  bool     `json:"available"`
	Category   string   `json:"category,omitempty"`
	Confidence float64  `json:"confidence,omitempty"`
	Categories []string `json:"categories"`
}

// capturePage renders the upload form.
func (c *Controller) capturePage(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, "capture.html", map[string]any{
		"Title":          "Capture",
		"Nav":            "capture",
		"ModelAvailable": c.Predictor != nil,
		"Categories":     c.Labels.Names(),
	})
}

// classifyUpload accepts a multipart photo and returns the classifier's
// suggestion. With no model loaded the endpoint still succeeds and reports
// classification as unavailable.
func (c *Controller) classifyUpload(ctx echo.Context) error {
	file, err := ctx.FormFile("image")
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, "missing image upload")
	}
	src, err := file.Open()
	if err != nil {
		return c.internalError(ctx, err)
	}
	defer src.Close()

	wf := c.newWorkflow()
	if err := wf.Begin(src); err != nil {
		return jsonError(ctx, http.StatusBadRequest, "cannot decode image")
	}

	resp := classifyResponse{Categories: c.Labels.Names()}
	if category, confidence, ok := wf.Suggestion(); ok {
		resp.Available = true
		resp.Category = category
		resp.Confidence = float64(confidence)
	}
	return ctx.JSON(http.StatusOK, resp)
}

// saveItem runs the full capture workflow: decode, optional classification,
// then confirm with the operator's chosen category and note. The photo is
// persisted unless save_image=false.
func (c *Controller) saveItem(ctx echo.Context) error {
	category := ctx.FormValue("category")
	note := ctx.FormValue("note")
	saveImage := ctx.FormValue("save_image") != "false"

	file, err := ctx.FormFile("image")
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, "missing image upload")
	}
	src, err := file.Open()
	if err != nil {
		return c.internalError(ctx, err)
	}
	defer src.Close()

	wf := c.newWorkflow()
	if err := wf.Begin(src); err != nil {
		return jsonError(ctx, http.StatusBadRequest, "cannot decode image")
	}

	item, err := wf.Confirm(category, note, saveImage)
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, err.Error())
	}

	c.logger.Info("item saved", "id", item.ID, "category", item.Category)
	return ctx.JSON(http.StatusCreated, toItemResponse(&item))
}
