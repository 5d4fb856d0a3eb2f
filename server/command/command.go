package command

import (
	"fmt"

	"github.com/mattermost/mattermost/server/public/model"
	"github.com/mattermost/mattermost/server/public/pluginapi"
	"github.com/pkg/errors"
)

const (
	amazonCommandTrigger    = "amazon"
	affiliateCommandTrigger = "affiliate"

	// RegionsAutocompletePath is the plugin route serving the region suggestions of
	// `/affiliate configure`.
	RegionsAutocompletePath = "api/v1/autocomplete/regions"
)

// HelpText lists the commands.
const HelpText = "#### Affiliate links\n" +
	"* `/amazon <link>` - Clean an Amazon link and add the tracking tag of this team.\n" +
	"* `/affiliate configure <region>` - Set the tracking tag and footer of a region. Team admins only.\n" +
	"* `/affiliate stats` - Show how many links were tagged.\n" +
	"* `/affiliate help` - Show this help."

// Dispatcher runs parsed invocations.
type Dispatcher interface {
	Dispatch(args *model.CommandArgs, invocation Invocation) (*model.CommandResponse, error)
}

type Handler struct {
	client     *pluginapi.Client
	dispatcher Dispatcher
}

type Command interface {
	Handle(args *model.CommandArgs) (*model.CommandResponse, error)
}

// Register all your slash commands in the NewCommandHandler function.
func NewCommandHandler(client *pluginapi.Client, dispatcher Dispatcher) Command {
	for _, cmd := range commands() {
		if err := client.SlashCommand.Register(cmd); err != nil {
			client.Log.Error("Failed to register command", "trigger", cmd.Trigger, "error", err)
		}
	}

	return &Handler{
		client:     client,
		dispatcher: dispatcher,
	}
}

func commands() []*model.Command {
	amazon := model.NewAutocompleteData(amazonCommandTrigger, "<link>", "Clean an Amazon link and add the tracking tag")
	amazon.AddTextArgument("Amazon product link", "<link>", "")

	configure := model.NewAutocompleteData("configure", "<region>", "Set the tracking tag and footer of a region")
	configure.AddDynamicListArgument("Marketplace region", RegionsAutocompletePath, true)

	affiliate := model.NewAutocompleteData(affiliateCommandTrigger, "[configure|stats|help]", "Manage affiliate links")
	affiliate.AddCommand(configure)
	affiliate.AddCommand(model.NewAutocompleteData("stats", "", "Show link statistics"))
	affiliate.AddCommand(model.NewAutocompleteData("help", "", "Show help"))

	return []*model.Command{
		{
			Trigger:          amazonCommandTrigger,
			AutoComplete:     true,
			AutoCompleteDesc: "Clean an Amazon link and add the tracking tag",
			AutoCompleteHint: "<link>",
			AutocompleteData: amazon,
		},
		{
			Trigger:          affiliateCommandTrigger,
			AutoComplete:     true,
			AutoCompleteDesc: "Manage affiliate links",
			AutoCompleteHint: "[configure|stats|help]",
			AutocompleteData: affiliate,
		},
	}
}

// ExecuteCommand hook calls this method to execute the commands that were registered in the NewCommandHandler function.
func (c *Handler) Handle(args *model.CommandArgs) (*model.CommandResponse, error) {
	invocation, err := Parse(args.Command)
	if err != nil {
		var usage *UsageError
		if errors.As(err, &usage) {
			return ephemeral(usage.Error()), nil
		}
		return ephemeral(fmt.Sprintf("Unknown command: %s", args.Command)), nil
	}

	return c.dispatcher.Dispatch(args, invocation)
}

func ephemeral(text string) *model.CommandResponse {
	return &model.CommandResponse{
		ResponseType: model.CommandResponseTypeEphemeral,
		Text:         text,
	}
}
