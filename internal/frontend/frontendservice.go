package frontend

import (
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"text/template"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bithidat-dotcom/Quats-banana/internal/core"
	"github.com/bithidat-dotcom/Quats-banana/internal/gateway"
	"github.com/bithidat-dotcom/Quats-banana/internal/studio"
)

const (
	MainPageName = "index.html"
	mimePNG      = "image/png"
)

type FrontendService struct {
	coreService *core.StudioService
	config      *core.ServiceConfig
}

func NewFrontendService(config *core.ServiceConfig, coreService *core.StudioService) *FrontendService {
	return &FrontendService{
		coreService: coreService,
		config:      config,
	}
}

// Template renders the embedded views for echo.
type Template struct {
	templates *template.Template
}

func (t *Template) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.templates.ExecuteTemplate(w, name, data)
}

// rootRedirectHandler redirects root path to index.html
func (service *FrontendService) rootRedirectHandler(ctx echo.Context) error {
	return ctx.Redirect(http.StatusMovedPermanently, "/"+MainPageName)
}

func (service *FrontendService) SetRoutes(e *echo.Echo) {
	// Create template renderer
	e.Renderer = &Template{
		templates: template.Must(template.New("").ParseFS(templateFS, viewsPattern)),
	}

	e.GET("/", service.rootRedirectHandler) // Redirect root to index.html
	e.GET("/"+MainPageName, service.indexHandler)

	e.POST("/htmx/generate", service.htmxGenerateHandler)
	e.GET("/htmx/images", service.htmxListImagesHandler)
	e.GET("/htmx/image/thumb/:id", service.htmxThumbnailHandler)
	e.GET("/htmx/image/full/:id", service.htmxFullImageHandler)
	e.GET("/htmx/editor/:id", service.htmxEditorHandler)
	e.POST("/htmx/image/:id/edit", service.htmxRemoteEditHandler)
	e.POST("/htmx/image/:id/filter", service.htmxFilterHandler)
	e.POST("/htmx/image/:id/caption", service.htmxCaptionHandler)
	e.DELETE("/htmx/image/:id", service.htmxDeleteImageHandler)

	// Icon routes: raw SVG plus a rasterized PNG favicon
	e.GET("/icon.svg", service.iconHandler)
	e.GET("/favicon.png", service.faviconHandler)
}

func (service *FrontendService) indexHandler(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, MainPageName, map[string]any{
		"AspectRatios": studio.SupportedAspectRatios,
	})
}

func (service *FrontendService) htmxGenerateHandler(ctx echo.Context) error {
	prompt := strings.TrimSpace(ctx.FormValue("prompt"))
	if prompt == "" {
		slog.Warn("htmxGenerateHandler: empty prompt", "status", http.StatusBadRequest)
		return ctx.String(http.StatusBadRequest, "Prompt must not be empty")
	}
	ratio := ctx.FormValue("aspectRatio")

	record, err := service.coreService.GenerateImage(ctx.Request().Context(), prompt, ratio)
	if err != nil {
		return service.renderGatewayError(ctx, "htmxGenerateHandler", err)
	}

	// Return the refreshed gallery plus an out-of-band status line
	galleryHTML, err := service.buildGalleryHTML(service.timestampNanoStr())
	if err != nil {
		slog.Error("htmxGenerateHandler: failed to build gallery", "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to refresh gallery")
	}
	status := fmt.Sprintf(`<div id="status" hx-swap-oob="true">Generated image %s</div>`, record.ID)
	return ctx.HTML(http.StatusOK, galleryHTML+status)
}

func (service *FrontendService) htmxListImagesHandler(ctx echo.Context) error {
	galleryHTML, err := service.buildGalleryHTML(service.timestampNanoStr())
	if err != nil {
		slog.Error("htmxListImagesHandler: failed to list images",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to list images")
	}

	// Prevent caching so the latest images are always shown
	service.setNoCache(ctx)

	return ctx.HTML(http.StatusOK, galleryHTML)
}

func (service *FrontendService) htmxThumbnailHandler(ctx echo.Context) error {
	id := ctx.Param("id")
	if id == "" {
		slog.Warn("htmxThumbnailHandler: missing image id",
			"status", http.StatusBadRequest, "route", "/htmx/image/thumb/:id")
		return ctx.String(http.StatusBadRequest, "Missing image ID")
	}

	thumbnail, err := service.coreService.Thumbnail(ctx.Request().Context(), id)
	if err != nil || len(thumbnail) == 0 {
		slog.Warn("htmxThumbnailHandler: thumbnail not available",
			"status", http.StatusNotFound, "image_id", id, "error", err)
		return ctx.String(http.StatusNotFound, "Thumbnail not available")
	}

	service.setNoCache(ctx)
	return ctx.Blob(http.StatusOK, mimePNG, thumbnail)
}

func (service *FrontendService) htmxFullImageHandler(ctx echo.Context) error {
	id := ctx.Param("id")
	record, err := service.coreService.GetRecord(id)
	if err != nil {
		slog.Warn("htmxFullImageHandler: image not available",
			"status", http.StatusNotFound, "image_id", id, "error", err)
		return ctx.String(http.StatusNotFound, "Image not available")
	}
	data, err := record.Bytes()
	if err != nil {
		slog.Error("htmxFullImageHandler: undecodable payload",
			"status", http.StatusInternalServerError, "image_id", id, "error", err)
		return ctx.String(http.StatusInternalServerError, "Image payload unreadable")
	}

	service.setNoCache(ctx)
	return ctx.Blob(http.StatusOK, record.MimeType, data)
}

func (service *FrontendService) htmxEditorHandler(ctx echo.Context) error {
	id := ctx.Param("id")
	record, err := service.coreService.GetRecord(id)
	if err != nil {
		slog.Warn("htmxEditorHandler: image not available",
			"status", http.StatusNotFound, "image_id", id, "error", err)
		return ctx.String(http.StatusNotFound, "Image not available")
	}

	lineage, err := service.coreService.Lineage(id)
	if err != nil {
		slog.Error("htmxEditorHandler: failed to compute lineage", "image_id", id, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to compute version history")
	}

	service.setNoCache(ctx)
	return ctx.HTML(http.StatusOK, service.buildEditorHTML(record, lineage))
}

func (service *FrontendService) htmxRemoteEditHandler(ctx echo.Context) error {
	id := ctx.Param("id")
	instruction := strings.TrimSpace(ctx.FormValue("instruction"))
	if instruction == "" {
		return ctx.String(http.StatusBadRequest, "Instruction must not be empty")
	}

	record, err := service.coreService.EditImage(ctx.Request().Context(), id, instruction)
	if err != nil {
		return service.renderGatewayError(ctx, "htmxRemoteEditHandler", err)
	}
	return service.renderEditorFor(ctx, record.ID)
}

func (service *FrontendService) htmxFilterHandler(ctx echo.Context) error {
	id := ctx.Param("id")
	filterName := ctx.FormValue("filter")

	record, err := service.coreService.ApplyFilter(id, filterName)
	if err != nil {
		slog.Warn("htmxFilterHandler: filter failed",
			"status", http.StatusBadRequest, "image_id", id, "filter", filterName, "error", err)
		return ctx.String(http.StatusBadRequest, "Failed to apply filter")
	}
	return service.renderEditorFor(ctx, record.ID)
}

func (service *FrontendService) htmxCaptionHandler(ctx echo.Context) error {
	id := ctx.Param("id")
	text := ctx.FormValue("text")
	position := ctx.FormValue("position")

	record, err := service.coreService.AddCaption(id, text, position)
	if err != nil {
		slog.Warn("htmxCaptionHandler: caption failed",
			"status", http.StatusBadRequest, "image_id", id, "error", err)
		return ctx.String(http.StatusBadRequest, "Failed to add caption")
	}
	return service.renderEditorFor(ctx, record.ID)
}

func (service *FrontendService) htmxDeleteImageHandler(ctx echo.Context) error {
	id := ctx.Param("id")
	if id == "" {
		slog.Warn("htmxDeleteImageHandler: missing image id",
			"status", http.StatusBadRequest, "route", "/htmx/image/:id")
		return ctx.String(http.StatusBadRequest, "Missing image ID")
	}

	service.coreService.DeleteImage(ctx.Request().Context(), id)

	galleryHTML, err := service.buildGalleryHTML(service.timestampNanoStr())
	if err != nil {
		slog.Error("htmxDeleteImageHandler: failed to list images after delete",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to list images")
	}

	service.setNoCache(ctx)
	return ctx.HTML(http.StatusOK, galleryHTML)
}

// renderEditorFor re-renders the editor view focused on a freshly derived
// record, with an out-of-band gallery refresh.
func (service *FrontendService) renderEditorFor(ctx echo.Context, id string) error {
	record, err := service.coreService.GetRecord(id)
	if err != nil {
		return ctx.String(http.StatusNotFound, "Image not available")
	}
	lineage, err := service.coreService.Lineage(id)
	if err != nil {
		return ctx.String(http.StatusInternalServerError, "Failed to compute version history")
	}

	galleryHTML, err := service.buildGalleryHTML(service.timestampNanoStr())
	if err != nil {
		slog.Error("renderEditorFor: failed to build gallery", "error", err)
		return ctx.HTML(http.StatusOK, service.buildEditorHTML(record, lineage))
	}
	galleryOOB := fmt.Sprintf(`<div id="gallery" hx-swap-oob="true">%s</div>`, galleryHTML)

	service.setNoCache(ctx)
	return ctx.HTML(http.StatusOK, service.buildEditorHTML(record, lineage)+galleryOOB)
}

// renderGatewayError maps gateway failures onto user-visible responses. A
// busy guard is a conflict, not an error; nothing was committed either way.
func (service *FrontendService) renderGatewayError(ctx echo.Context, handler string, err error) error {
	switch {
	case errors.Is(err, gateway.ErrBusy):
		slog.Warn(handler+": request already in flight", "status", http.StatusConflict)
		return ctx.String(http.StatusConflict, "A generation request is already running, try again in a moment")
	case errors.Is(err, gateway.ErrInvalidInput):
		slog.Warn(handler+": invalid source image", "status", http.StatusBadRequest, "error", err)
		return ctx.String(http.StatusBadRequest, "The source image cannot be decoded")
	case errors.Is(err, gateway.ErrGeneration):
		slog.Error(handler+": generation failed", "status", http.StatusBadGateway, "error", err)
		return ctx.String(http.StatusBadGateway, "Image generation failed, no image was created")
	default:
		slog.Error(handler+": unexpected error", "status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Request failed")
	}
}

func (service *FrontendService) setNoCache(ctx echo.Context) {
	ctx.Response().Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	ctx.Response().Header().Set("Pragma", "no-cache")
	ctx.Response().Header().Set("Expires", "0")
}

func (service *FrontendService) timestampNanoStr() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

func (service *FrontendService) buildGalleryHTML(ts string) (string, error) {
	records := service.coreService.Records()

	var b strings.Builder
	if len(records) == 0 {
		b.WriteString(`<p>No images yet. Describe one above to get started.</p>`)
		return b.String(), nil
	}

	b.WriteString(`<div class="gallery-grid" id="gallery-list">`)
	for _, record := range records {
		prompt := html.EscapeString(record.Prompt)
		b.WriteString(fmt.Sprintf(`<div class="gallery-item" data-id="%s"><article>
	<img src="/htmx/image/thumb/%s?ts=%s" alt="%s" style="max-width:100%%;height:auto"
		hx-get="/htmx/editor/%s" hx-target="#editor" hx-swap="innerHTML">
	<footer style="display:flex;gap:0.5rem;align-items:center;flex-wrap:wrap">
		<small title="%s">%s</small>
		<small>%s &middot; %s</small>
		<button hx-delete="/htmx/image/%s" hx-target="#gallery" hx-swap="innerHTML" class="secondary">Delete</button>
	</footer>
</article></div>`, record.ID, record.ID, ts, prompt, record.ID,
			prompt, truncate(prompt, 60),
			record.AspectRatio, record.CreatedAt.Format("2006-01-02 15:04"),
			record.ID))
	}
	b.WriteString(`</div>`)
	return b.String(), nil
}

// buildEditorHTML renders the focused image, its version history strip, and
// the edit controls.
func (service *FrontendService) buildEditorHTML(record *studio.ImageRecord, lineage []*studio.ImageRecord) string {
	ts := service.timestampNanoStr()

	var b strings.Builder
	b.WriteString(fmt.Sprintf(`<article class="editor" data-id="%s">
<img src="/htmx/image/full/%s?ts=%s" alt="%s" style="max-width:100%%;height:auto">
<p><small>%s</small></p>`,
		record.ID, record.ID, ts, html.EscapeString(record.Prompt), html.EscapeString(record.Prompt)))

	// Version history: ancestors, the record itself, and its direct children
	b.WriteString(`<div class="lineage-strip" style="display:flex;gap:0.5rem;overflow-x:auto">`)
	for _, entry := range lineage {
		marker := ""
		if entry.ID == record.ID {
			marker = ` class="current"`
		}
		b.WriteString(fmt.Sprintf(`<img%s src="/htmx/image/thumb/%s?ts=%s" alt="%s" width="96"
	hx-get="/htmx/editor/%s" hx-target="#editor" hx-swap="innerHTML">`,
			marker, entry.ID, ts, html.EscapeString(entry.Prompt), entry.ID))
	}
	b.WriteString(`</div>`)

	// Remote edit instruction
	b.WriteString(fmt.Sprintf(`<form hx-post="/htmx/image/%s/edit" hx-target="#editor" hx-swap="innerHTML">
	<input type="text" name="instruction" placeholder="Describe an edit, e.g. add a sunset">
	<button type="submit">Apply edit</button>
</form>`, record.ID))

	// Filter presets from configuration
	b.WriteString(`<div class="filters" style="display:flex;gap:0.5rem;flex-wrap:wrap">`)
	for _, preset := range service.coreService.Filters() {
		b.WriteString(fmt.Sprintf(`<form hx-post="/htmx/image/%s/filter" hx-target="#editor" hx-swap="innerHTML">
	<input type="hidden" name="filter" value="%s">
	<button type="submit" class="secondary">%s</button>
</form>`, record.ID, html.EscapeString(preset.Name), html.EscapeString(preset.Name)))
	}
	b.WriteString(`</div>`)

	// Caption overlay
	b.WriteString(fmt.Sprintf(`<form hx-post="/htmx/image/%s/caption" hx-target="#editor" hx-swap="innerHTML">
	<input type="text" name="text" placeholder="Caption text">
	<select name="position">
		<option value="bottom">Bottom</option>
		<option value="top">Top</option>
	</select>
	<button type="submit">Add caption</button>
</form>`, record.ID))

	b.WriteString(`</article>`)
	return b.String()
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

func (service *FrontendService) iconHandler(ctx echo.Context) error {
	data, err := assetsFS.ReadFile("views/icon.svg")
	if err != nil {
		slog.Error("iconHandler: failed to read icon.svg", "status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to load icon")
	}
	// Cache for 7 days
	ctx.Response().Header().Set("Cache-Control", "public, max-age=604800, immutable")
	return ctx.Blob(http.StatusOK, "image/svg+xml", data)
}

func (service *FrontendService) faviconHandler(ctx echo.Context) error {
	data, err := rasterizedIcon(32)
	if err != nil {
		slog.Error("faviconHandler: failed to rasterize icon", "status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to render favicon")
	}
	ctx.Response().Header().Set("Cache-Control", "public, max-age=604800, immutable")
	return ctx.Blob(http.StatusOK, mimePNG, data)
}
