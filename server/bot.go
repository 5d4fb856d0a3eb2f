package main

import (
	"os"
	"path/filepath"

	"github.com/mattermost/mattermost/server/public/model"
	"github.com/mattermost/mattermost/server/public/plugin"
	"github.com/pkg/errors"
)

const (
	// BotUsername is the username for the affiliate-linker bot
	BotUsername = "affiliate-linker"
	// BotDisplayName is the display name for the affiliate-linker bot
	BotDisplayName = "Affiliate Linker"
	// BotDescription is the description for the affiliate-linker bot
	BotDescription = "Cleans Amazon links and adds the tracking tag of the team"
)

// BotService manages the affiliate bot account
type BotService struct {
	api   plugin.API
	botID string
}

// NewBotService creates a new bot service
func NewBotService(api plugin.API) *BotService {
	return &BotService{
		api: api,
	}
}

// EnsureBotExists creates the bot account if needed and remembers its id
func (b *BotService) EnsureBotExists() error {
	botID, err := b.api.EnsureBotUser(&model.Bot{
		Username:    BotUsername,
		DisplayName: BotDisplayName,
		Description: BotDescription,
	})
	if err != nil {
		return errors.Wrap(err, "failed to ensure bot user")
	}
	b.botID = botID

	// Log error but don't fail activation if profile image can't be set
	if err := b.setBotProfileImage(); err != nil {
		b.api.LogWarn("Failed to set bot profile image", "error", err.Error())
	}

	return nil
}

// setBotProfileImage sets the bot's profile image from the plugin's icon asset
func (b *BotService) setBotProfileImage() error {
	bundlePath, err := b.api.GetBundlePath()
	if err != nil {
		return errors.Wrap(err, "failed to get bundle path")
	}

	iconData, err := os.ReadFile(filepath.Join(bundlePath, "assets", "icon.png"))
	if err != nil {
		return errors.Wrap(err, "failed to read icon file")
	}

	if appErr := b.api.SetProfileImage(b.botID, iconData); appErr != nil {
		return errors.Wrap(appErr, "failed to set profile image")
	}

	return nil
}

// GetBotID returns the bot user ID
func (b *BotService) GetBotID() string {
	return b.botID
}
