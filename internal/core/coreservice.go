package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bithidat-dotcom/Quats-banana/internal/cache"
	"github.com/bithidat-dotcom/Quats-banana/internal/commands"
	"github.com/bithidat-dotcom/Quats-banana/internal/database"
	"github.com/bithidat-dotcom/Quats-banana/internal/gateway"
	"github.com/bithidat-dotcom/Quats-banana/internal/pipeline"
	"github.com/bithidat-dotcom/Quats-banana/internal/studio"
)

// ErrRecordNotFound is returned when an operation references an image id that
// is not in the store.
var ErrRecordNotFound = errors.New("image record not found")

// localEditTag marks records produced by the local edit pipeline rather than
// the remote model.
const localEditTag = "local-edit"

// StudioService owns the session state: the record store with its durable
// slot, the generation gateway with its in-flight guard, and the optional
// preview cache.
type StudioService struct {
	config  *ServiceConfig
	slot    database.SlotStore
	store   *studio.Store
	gateway gateway.Gateway
	guard   gateway.Guard
	cache   *cache.PreviewCache
}

func NewStudioService(config *ServiceConfig, gw gateway.Gateway) (*StudioService, error) {
	slot, err := database.NewSlotStore(config.Database.Type, config.Database.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("database initialized successfully", "type", config.Database.Type)

	store := studio.NewStore(slot)
	if err := store.Load(); err != nil {
		return nil, fmt.Errorf("failed to load persisted records: %w", err)
	}
	slog.Info("record store loaded", "record_count", store.Len())

	service := &StudioService{
		config:  config,
		slot:    slot,
		store:   store,
		gateway: gw,
	}

	// The preview cache is an optimization; a missing Redis only costs
	// re-rendered thumbnails.
	if config.Cache.Addr != "" {
		previewCache, err := cache.NewPreviewCache(config.Cache.Addr, time.Duration(config.Cache.TTLSeconds)*time.Second)
		if err != nil {
			slog.Warn("preview cache unavailable, continuing without it", "addr", config.Cache.Addr, "error", err)
		} else {
			service.cache = previewCache
		}
	}

	for _, preset := range config.Filters {
		if !pipeline.DefaultRegistry.IsRegistered(preset.Command) {
			return nil, fmt.Errorf("filter %s references unknown command %s", preset.Name, preset.Command)
		}
	}

	return service, nil
}

// Records returns all records in most-recent-first display order.
func (service *StudioService) Records() []*studio.ImageRecord {
	return service.store.All()
}

// GetRecord looks up a single record by id.
func (service *StudioService) GetRecord(id string) (*studio.ImageRecord, error) {
	record, ok := service.store.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	return record, nil
}

// Lineage returns the version history shown in the editor for the record:
// ancestors, the record itself, and its immediate children in creation order.
func (service *StudioService) Lineage(id string) ([]*studio.ImageRecord, error) {
	record, err := service.GetRecord(id)
	if err != nil {
		return nil, err
	}
	return studio.Lineage(record, service.store.All()), nil
}

// Filters lists the configured filter presets for the editor view.
func (service *StudioService) Filters() []FilterPreset {
	return service.config.Filters
}

// Busy reports whether a generation request is currently outstanding.
func (service *StudioService) Busy() bool {
	return service.guard.Busy()
}

// GenerateImage asks the remote model for a new image and appends the
// resulting record. On any gateway failure no record is created.
func (service *StudioService) GenerateImage(ctx context.Context, prompt string, ratioValue string) (*studio.ImageRecord, error) {
	ratio, err := studio.ParseAspectRatio(ratioValue)
	if err != nil {
		return nil, err
	}

	if err := service.guard.Acquire(); err != nil {
		return nil, err
	}
	defer service.guard.Release()

	img, err := service.gateway.Generate(ctx, prompt, ratio)
	if err != nil {
		return nil, err
	}

	record := studio.NewRecord(img.Data, img.MimeType, prompt, ratio, service.gateway.ModelTag(), "")
	service.store.Prepend(record)
	slog.Info("generated image", "record_id", record.ID, "aspect_ratio", ratio, "model", record.ModelTag)
	return record, nil
}

// EditImage sends an existing image with a natural-language instruction to
// the remote model and appends the derived record, linked to its source.
func (service *StudioService) EditImage(ctx context.Context, id string, instruction string) (*studio.ImageRecord, error) {
	source, err := service.GetRecord(id)
	if err != nil {
		return nil, err
	}
	sourceData, err := source.Bytes()
	if err != nil {
		return nil, err
	}

	if err := service.guard.Acquire(); err != nil {
		return nil, err
	}
	defer service.guard.Release()

	img, err := service.gateway.Edit(ctx, sourceData, instruction)
	if err != nil {
		return nil, err
	}

	// Edits inherit the source's aspect ratio.
	record := studio.NewRecord(img.Data, img.MimeType, instruction, source.AspectRatio, service.gateway.ModelTag(), source.ID)
	service.store.Prepend(record)
	slog.Info("edited image", "record_id", record.ID, "parent_id", source.ID, "model", record.ModelTag)
	return record, nil
}

// ApplyFilter runs a configured filter preset locally and appends the derived
// record, linked to its source.
func (service *StudioService) ApplyFilter(id string, filterName string) (*studio.ImageRecord, error) {
	var preset *FilterPreset
	for i := range service.config.Filters {
		if service.config.Filters[i].Name == filterName {
			preset = &service.config.Filters[i]
			break
		}
	}
	if preset == nil {
		return nil, fmt.Errorf("unknown filter: %s", filterName)
	}

	prompt := fmt.Sprintf("applied filter: %s", preset.Name)
	return service.applyLocalEdit(id, prompt, pipeline.CommandConfig{
		Name:   preset.Command,
		Params: preset.Params,
	})
}

// AddCaption draws a text overlay locally and appends the derived record.
func (service *StudioService) AddCaption(id string, text string, position string) (*studio.ImageRecord, error) {
	params := map[string]any{"text": text}
	if position != "" {
		params["position"] = position
	}

	prompt := fmt.Sprintf("added caption: %q", text)
	return service.applyLocalEdit(id, prompt, pipeline.CommandConfig{
		Name:   "CaptionCommand",
		Params: params,
	})
}

func (service *StudioService) applyLocalEdit(id string, prompt string, config pipeline.CommandConfig) (*studio.ImageRecord, error) {
	source, err := service.GetRecord(id)
	if err != nil {
		return nil, err
	}
	sourceData, err := source.Bytes()
	if err != nil {
		return nil, err
	}

	edited, err := pipeline.ExecuteCommands(sourceData, []pipeline.CommandConfig{config})
	if err != nil {
		return nil, err
	}

	record := studio.NewRecord(edited, "image/png", prompt, source.AspectRatio, localEditTag, source.ID)
	service.store.Prepend(record)
	slog.Info("applied local edit", "record_id", record.ID, "parent_id", source.ID, "command", config.Name)
	return record, nil
}

// DeleteImage removes a record. Children keep their parentId; their lineage
// walk simply terminates early from now on.
func (service *StudioService) DeleteImage(ctx context.Context, id string) {
	service.store.Remove(id)
	service.cache.Invalidate(ctx, id)
}

// Thumbnail renders (or serves from cache) a gallery thumbnail for a record.
func (service *StudioService) Thumbnail(ctx context.Context, id string) ([]byte, error) {
	if thumbnail, ok := service.cache.Get(ctx, id); ok {
		return thumbnail, nil
	}

	record, err := service.GetRecord(id)
	if err != nil {
		return nil, err
	}
	data, err := record.Bytes()
	if err != nil {
		return nil, err
	}

	command, err := commands.NewScaleCommand(map[string]any{"width": service.config.ThumbnailWidth})
	if err != nil {
		return nil, fmt.Errorf("failed to create thumbnail command: %w", err)
	}
	thumbnail, err := command.Execute(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate thumbnail: %w", err)
	}

	service.cache.Set(ctx, id, thumbnail)
	return thumbnail, nil
}

// Close releases the durable slot and the preview cache.
func (service *StudioService) Close() error {
	if err := service.cache.Close(); err != nil {
		slog.Warn("failed to close preview cache", "error", err)
	}
	return service.slot.Close()
}
