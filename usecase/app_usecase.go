package usecase

import (
	"context"
	"fmt"
	"strings"

	"review-enhancer/domain/dto"
	"review-enhancer/domain/model"
	"review-enhancer/domain/repository"
	"review-enhancer/infrastructure/logger"
	"review-enhancer/infrastructure/utils"
)

const (
	widgetScript     = "review-enhancer.js"
	widgetStylesheet = "review-enhancer.css"
)

// IAppUsecase handles the app lifecycle webhooks and per-mall widget settings.
type IAppUsecase interface {
	Install(ctx context.Context, req dto.WebhookRequest) (*dto.InstallResult, error)
	Uninstall(ctx context.Context, req dto.WebhookRequest) error
	Update(ctx context.Context, req dto.WebhookRequest) error
	GetSettings(ctx context.Context, mallID string) (*model.MallSettings, error)
	UpdateSettings(ctx context.Context, mallID string, req dto.SettingsUpdateRequest) (*model.MallSettings, error)
}

type AppUsecase struct {
	client        repository.ICafe24
	settings      repository.ISettings
	events        repository.IEventPublisher
	clock         utils.Clock
	scriptBaseURL string
}

func NewAppUsecase(
	client repository.ICafe24,
	settings repository.ISettings,
	events repository.IEventPublisher,
	clock utils.Clock,
	scriptBaseURL string,
) *AppUsecase {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &AppUsecase{
		client:        client,
		settings:      settings,
		events:        events,
		clock:         clock,
		scriptBaseURL: strings.TrimRight(scriptBaseURL, "/"),
	}
}

// Install resets the mall to default settings and registers the widget
// script tags. Script tag failures leave the install in place with
// AutoInstallation false.
func (u *AppUsecase) Install(ctx context.Context, req dto.WebhookRequest) (*dto.InstallResult, error) {
	log := logger.GetLogger().WithField("mall_id", req.MallID)
	log.Info("App install webhook received")

	now := u.clock.Now()
	settings := model.NewDefaultSettings(req.MallID)
	settings.InstalledAt = &now
	settings.Version = req.Version
	existing, err := u.settings.GetSettings(ctx, req.MallID)
	if err != nil {
		log.WithField("error", err.Error()).Warn("Failed to load previous settings, installing defaults")
	} else if existing != nil {
		settings.ReviewBoardNo = existing.ReviewBoardNo
	}
	if err := u.settings.SaveSettings(ctx, settings); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}

	result := &dto.InstallResult{MallID: req.MallID, AutoInstallation: true}
	scriptNos, err := u.installScripts(ctx)
	if err != nil {
		log.WithField("error", err.Error()).Error("Script tag installation failed")
		result.AutoInstallation = false
		result.Error = err.Error()
	}
	// Tags created before a failure are stored too, so uninstall can remove them.
	if scriptNos.JS != "" || scriptNos.CSS != "" {
		settings.ScriptNos = scriptNos
		result.JSScriptNo = scriptNos.JS
		result.CSSScriptNo = scriptNos.CSS
		if err := u.settings.SaveSettings(ctx, settings); err != nil {
			return nil, fmt.Errorf("save settings: %w", err)
		}
	}

	u.publish(ctx, model.EventAppInstalled, req.MallID, map[string]interface{}{
		"version":           req.Version,
		"auto_installation": result.AutoInstallation,
	})
	log.WithField("auto_installation", result.AutoInstallation).Info("App installed")
	return result, nil
}

func (u *AppUsecase) installScripts(ctx context.Context) (model.ScriptNos, error) {
	var nos model.ScriptNos
	js, err := u.client.CreateScriptTag(ctx, dto.ScriptTagRequest{Src: u.scriptURL(widgetScript)})
	if err != nil {
		return nos, fmt.Errorf("create js script tag: %w", err)
	}
	nos.JS = js.ScriptNo

	css, err := u.client.CreateScriptTag(ctx, dto.ScriptTagRequest{Src: u.scriptURL(widgetStylesheet)})
	if err != nil {
		return nos, fmt.Errorf("create css script tag: %w", err)
	}
	nos.CSS = css.ScriptNo
	return nos, nil
}

func (u *AppUsecase) scriptURL(file string) string {
	return u.scriptBaseURL + "/" + file
}

// Uninstall removes the registered script tags, then the settings. Tag
// deletion failures are logged only.
func (u *AppUsecase) Uninstall(ctx context.Context, req dto.WebhookRequest) error {
	log := logger.GetLogger().WithField("mall_id", req.MallID)
	log.Info("App uninstall webhook received")

	settings, err := u.settings.GetSettings(ctx, req.MallID)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if settings != nil {
		for _, scriptNo := range []string{settings.ScriptNos.JS, settings.ScriptNos.CSS} {
			if scriptNo == "" {
				continue
			}
			if err := u.client.DeleteScriptTag(ctx, scriptNo); err != nil {
				log.WithFields(map[string]interface{}{
					"script_no": scriptNo,
					"error":     err.Error(),
				}).Warn("Failed to delete script tag")
			}
		}
	}

	if err := u.settings.DeleteSettings(ctx, req.MallID); err != nil {
		return fmt.Errorf("delete settings: %w", err)
	}
	u.publish(ctx, model.EventAppUninstalled, req.MallID, nil)
	log.Info("App uninstalled")
	return nil
}

// Update records the new app version on an installed mall.
func (u *AppUsecase) Update(ctx context.Context, req dto.WebhookRequest) error {
	settings, err := u.settings.GetSettings(ctx, req.MallID)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if settings != nil {
		now := u.clock.Now()
		settings.Version = req.Version
		settings.UpdatedAt = &now
		if err := u.settings.SaveSettings(ctx, settings); err != nil {
			return fmt.Errorf("save settings: %w", err)
		}
	}
	u.publish(ctx, model.EventAppUpdated, req.MallID, map[string]interface{}{"version": req.Version})
	logger.GetLogger().WithFields(map[string]interface{}{
		"mall_id": req.MallID,
		"version": req.Version,
	}).Info("App updated")
	return nil
}

// GetSettings returns stored settings, or defaults for a mall without any.
func (u *AppUsecase) GetSettings(ctx context.Context, mallID string) (*model.MallSettings, error) {
	settings, err := u.settings.GetSettings(ctx, mallID)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if settings == nil {
		return model.NewDefaultSettings(mallID), nil
	}
	return settings, nil
}

func (u *AppUsecase) UpdateSettings(ctx context.Context, mallID string, req dto.SettingsUpdateRequest) (*model.MallSettings, error) {
	settings, err := u.GetSettings(ctx, mallID)
	if err != nil {
		return nil, err
	}
	if req.EnableWidget != nil {
		settings.EnableWidget = *req.EnableWidget
	}
	if req.ShowStatistics != nil {
		settings.ShowStatistics = *req.ShowStatistics
	}
	if req.ShowPhotoGallery != nil {
		settings.ShowPhotoGallery = *req.ShowPhotoGallery
	}
	if req.MainColor != nil {
		settings.MainColor = *req.MainColor
	}
	if req.PhotoGalleryCount != nil {
		settings.PhotoGalleryCount = *req.PhotoGalleryCount
	}
	now := u.clock.Now()
	settings.UpdatedAt = &now

	if err := u.settings.SaveSettings(ctx, settings); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}
	return settings, nil
}

func (u *AppUsecase) publish(ctx context.Context, eventType, mallID string, data map[string]interface{}) {
	if u.events == nil {
		return
	}
	if err := u.events.Publish(ctx, model.NewEvent(eventType, mallID, u.clock.Now(), data)); err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		}).Warn("Failed to publish event")
	}
}
