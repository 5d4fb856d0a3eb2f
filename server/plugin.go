package main

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/mattermost/mattermost/server/public/model"
	"github.com/mattermost/mattermost/server/public/plugin"
	"github.com/mattermost/mattermost/server/public/pluginapi"
	"github.com/mattermost/mattermost/server/public/pluginapi/cluster"
	"github.com/pkg/errors"

	"github.com/fmartingr/mattermost-plugin-affiliate-links/server/affiliate"
	"github.com/fmartingr/mattermost-plugin-affiliate-links/server/command"
	"github.com/fmartingr/mattermost-plugin-affiliate-links/server/metrics"
	"github.com/fmartingr/mattermost-plugin-affiliate-links/server/store/kvstore"
	"github.com/fmartingr/mattermost-plugin-affiliate-links/server/store/sqlstore"
)

// pluginID must match the id of plugin.json.
const pluginID = "com.fmartingr.affiliate-links"

// Plugin implements the interface expected by the Mattermost server to communicate between the server and plugin processes.
type Plugin struct {
	plugin.MattermostPlugin

	// client is the Mattermost server API client.
	client *pluginapi.Client

	// store keeps team tags, footers and usage. It is the KV store unless a database is configured.
	store affiliate.SettingsStore

	// sqlStore is set when the store is backed by a database, so it can be closed.
	sqlStore *sqlstore.Store

	metrics *metrics.Metrics

	// commandClient is the client used to register and execute slash commands.
	commandClient command.Command

	backgroundJob *cluster.Job

	// configurationLock synchronizes access to the configuration.
	configurationLock sync.RWMutex

	// configuration is the active plugin configuration. Consult getConfiguration and
	// setConfiguration for usage.
	configuration *configuration

	// linker is rebuilt whenever the configuration it was built from is replaced.
	linkerLock   sync.Mutex
	linker       *affiliate.Linker
	linkerConfig *configuration

	// botService manages the affiliate bot account
	botService *BotService

	// replyService posts the bot replies
	replyService *ReplyService

	// deletions removes hint posts once they expire
	deletions *deletionScheduler

	// linkProcessor handles links in posted messages
	linkProcessor *LinkProcessor
}

// OnActivate is invoked when the plugin is activated. If an error is returned, the plugin will be deactivated.
func (p *Plugin) OnActivate() error {
	p.client = pluginapi.NewClient(p.API, p.Driver)

	if err := p.openStore(); err != nil {
		return err
	}

	p.metrics = metrics.New()

	p.botService = NewBotService(p.API)
	if err := p.botService.EnsureBotExists(); err != nil {
		return errors.Wrap(err, "failed to ensure bot account exists")
	}

	p.replyService = NewReplyService(p.API, p.botService.GetBotID())
	p.deletions = newDeletionScheduler(p.replyService.DeletePost, p.API)
	p.linkProcessor = NewLinkProcessor(p.API, p.replyService, p.deletions, p.botService.GetBotID())

	p.commandClient = command.NewCommandHandler(p.client, p)

	job, err := cluster.Schedule(
		p.API,
		"UsageSnapshotJob",
		cluster.MakeWaitForRoundedInterval(1*time.Hour),
		p.runJob,
	)
	if err != nil {
		return errors.Wrap(err, "failed to schedule background job")
	}

	p.backgroundJob = job

	// Fill the usage gauge without waiting for the first run.
	go p.runJob()

	return nil
}

// openStore selects the settings store from the configuration.
func (p *Plugin) openStore() error {
	config := p.getConfiguration()

	if config.storeDriver() != storeDriverSQLite {
		p.store = kvstore.NewKVStore(p.client)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := sqlstore.Open(ctx, config.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}

	p.sqlStore = store
	p.store = store
	p.API.LogInfo("Using database store", "driver", sqlstore.DriverName(config.DatabaseURL))

	return nil
}

// OnDeactivate is invoked when the plugin is deactivated.
func (p *Plugin) OnDeactivate() error {
	if p.backgroundJob != nil {
		if err := p.backgroundJob.Close(); err != nil {
			p.API.LogError("Failed to close background job", "err", err)
		}
	}

	if p.deletions != nil {
		p.deletions.Close()
	}

	if p.sqlStore != nil {
		if err := p.sqlStore.Close(); err != nil {
			p.API.LogError("Failed to close database", "err", err)
		}
		p.sqlStore = nil
	}

	return nil
}

// getLinker returns the link pipeline of the active configuration.
func (p *Plugin) getLinker() *affiliate.Linker {
	config := p.getConfiguration()

	p.linkerLock.Lock()
	defer p.linkerLock.Unlock()

	if p.linker == nil || p.linkerConfig != config {
		opts := affiliate.Options{
			Store:          p.store,
			Defaults:       config.defaults,
			Logger:         p.API,
			ResolveTimeout: config.resolveTimeout(),
		}
		if p.metrics != nil {
			opts.Observer = p.metrics
		}
		p.linker = affiliate.NewLinker(opts)
		p.linkerConfig = config
	}

	return p.linker
}

func (p *Plugin) configurator() *affiliate.Configurator {
	return affiliate.NewConfigurator(p.store, p.API)
}

func (p *Plugin) botID() string {
	if p.botService == nil {
		return ""
	}
	return p.botService.GetBotID()
}

// This will execute the commands that were registered in the NewCommandHandler function.
func (p *Plugin) ExecuteCommand(c *plugin.Context, args *model.CommandArgs) (*model.CommandResponse, *model.AppError) {
	response, err := p.commandClient.Handle(args)
	if err != nil {
		return nil, model.NewAppError("ExecuteCommand", "plugin.command.execute_command.app_error", nil, err.Error(), http.StatusInternalServerError)
	}
	return response, nil
}

// MessageHasBeenPosted is invoked when a message has been posted by a user.
// This hook is called after the message has been committed to the database.
func (p *Plugin) MessageHasBeenPosted(c *plugin.Context, post *model.Post) {
	// Ignore messages from the bot itself to prevent infinite loops
	if post.UserId == p.botID() {
		return
	}

	config := p.getConfiguration()
	linker := p.getLinker()

	go func() {
		if err := p.linkProcessor.ProcessPost(context.Background(), linker, post, config.hintLifetime()); err != nil {
			p.API.LogError("Failed to process post links", "postID", post.Id, "error", err.Error())
		}
	}()
}
