// Package slackrtm connects a bot to Slack over the Real Time Messaging API.
package slackrtm

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/gobridge/akumabot/bot"
	"github.com/nlopes/slack"
	"github.com/pkg/errors"
)

var (
	channelLinkRE = regexp.MustCompile(`^<#([A-Z0-9]+)(?:\|[^>]*)?>$`)
	userLinkRE    = regexp.MustCompile(`^<@([A-Z0-9]+)(?:\|[^>]*)?>$`)
)

type (
	// Handler receives the messages read from Slack.
	Handler interface {
		HandleChannelMessage(ctx context.Context, nickname, channel, text string)
		HandlePrivateMessage(ctx context.Context, nickname, text string)
	}

	// Options tune an Adapter.
	Options struct {
		// DevMode logs outgoing messages and actions instead of performing them.
		DevMode bool
		// Debug logs every incoming message.
		Debug bool
	}

	slackAPI interface {
		PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
		GetUserInfoContext(ctx context.Context, user string) (*slack.User, error)
		GetUsersContext(ctx context.Context) ([]slack.User, error)
		JoinConversationContext(ctx context.Context, channelID string) (*slack.Channel, string, []string, error)
		LeaveConversationContext(ctx context.Context, channelID string) (bool, error)
		KickUserFromConversationContext(ctx context.Context, channelID string, user string) error
	}

	rtmConn interface {
		ManageConnection()
		Disconnect() error
	}

	// Adapter implements bot.Chat on top of a Slack RTM connection.
	Adapter struct {
		api    slackAPI
		rtm    rtmConn
		events chan slack.RTMEvent
		opts   Options
		logf   bot.Logger

		mu        sync.RWMutex
		selfID    string
		userNames map[string]string
		userIDs   map[string]string
	}
)

// New will create a new Adapter for the given Slack client.
func New(api *slack.Client, opts Options, log bot.Logger) *Adapter {
	rtm := api.NewRTM()
	return newAdapter(api, rtm, rtm.IncomingEvents, opts, log)
}

func newAdapter(api slackAPI, rtm rtmConn, events chan slack.RTMEvent, opts Options, log bot.Logger) *Adapter {
	return &Adapter{
		api:       api,
		rtm:       rtm,
		events:    events,
		opts:      opts,
		logf:      log,
		userNames: map[string]string{},
		userIDs:   map[string]string{},
	}
}

// Run reads Slack events and hands messages to h until ctx is done, the
// connection is closed on purpose or the credentials are rejected.
func (a *Adapter) Run(ctx context.Context, h Handler) error {
	go a.rtm.ManageConnection()

	for {
		select {
		case <-ctx.Done():
			if err := a.rtm.Disconnect(); err != nil {
				a.logf("failed to disconnect: %v", err)
			}
			return ctx.Err()

		case msg, ok := <-a.events:
			if !ok {
				return nil
			}

			switch event := msg.Data.(type) {
			case *slack.ConnectedEvent:
				a.connected(event)

			case *slack.MessageEvent:
				go a.handleMessage(ctx, h, event)

			case *slack.InvalidAuthEvent:
				return errors.New("slack rejected the bot token")

			case *slack.DisconnectedEvent:
				if event.Intentional {
					a.logf("Disconnected from Slack")
					return nil
				}
			default:
			}
		}
	}
}

func (a *Adapter) connected(event *slack.ConnectedEvent) {
	if event.Info == nil || event.Info.User == nil {
		return
	}

	a.mu.Lock()
	a.selfID = event.Info.User.ID
	a.userNames[event.Info.User.ID] = event.Info.User.Name
	a.userIDs[event.Info.User.Name] = event.Info.User.ID
	a.mu.Unlock()

	a.logf("Connected to Slack as %s with ID: %s", event.Info.User.Name, event.Info.User.ID)
}

func (a *Adapter) handleMessage(ctx context.Context, h Handler, event *slack.MessageEvent) {
	if event.BotID != "" || event.User == "" || event.SubType == "bot_message" {
		return
	}

	a.mu.RLock()
	selfID := a.selfID
	a.mu.RUnlock()
	if event.User == selfID {
		return
	}

	if a.opts.Debug {
		a.logf("got message from %s in %s: %q", event.User, event.Channel, event.Text)
	}

	nickname, err := a.userName(ctx, event.User)
	if err != nil {
		a.logf("failed to look up user %s: %v", event.User, err)
		return
	}
	if isDirectMessage(event.Channel) {
		h.HandlePrivateMessage(ctx, nickname, dropMention(event.Text, selfID))
		return
	}
	h.HandleChannelMessage(ctx, nickname, event.Channel, a.trimMention(event.Text, selfID))
}

func isDirectMessage(channel string) bool {
	return strings.HasPrefix(channel, "D")
}

// trimMention turns a leading <@ID> mention of the bot into its name, so a
// nickname trigger works the same whether users type or autocomplete it.
func (a *Adapter) trimMention(text, selfID string) string {
	if selfID == "" {
		return text
	}

	mention := "<@" + selfID + ">"
	if !strings.HasPrefix(text, mention) {
		return text
	}

	a.mu.RLock()
	name := a.userNames[selfID]
	a.mu.RUnlock()
	return name + text[len(mention):]
}

// dropMention removes a leading <@ID> mention of the bot from a direct
// message, where commands are given without a trigger.
func dropMention(text, selfID string) string {
	mention := "<@" + selfID + ">"
	if selfID == "" || !strings.HasPrefix(text, mention) {
		return text
	}
	return strings.TrimLeft(text[len(mention):], " ,:")
}

func (a *Adapter) userName(ctx context.Context, id string) (string, error) {
	a.mu.RLock()
	name, ok := a.userNames[id]
	a.mu.RUnlock()
	if ok {
		return name, nil
	}

	user, err := a.api.GetUserInfoContext(ctx, id)
	if err != nil {
		return "", err
	}

	a.rememberUser(user.ID, user.Name)
	return user.Name, nil
}

func (a *Adapter) rememberUser(id, name string) {
	a.mu.Lock()
	a.userNames[id] = name
	a.userIDs[name] = id
	a.mu.Unlock()
}

func (a *Adapter) userID(ctx context.Context, nickname string) (string, error) {
	if m := userLinkRE.FindStringSubmatch(nickname); m != nil {
		return m[1], nil
	}
	nickname = strings.TrimPrefix(nickname, "@")

	a.mu.RLock()
	id, ok := a.userIDs[nickname]
	a.mu.RUnlock()
	if ok {
		return id, nil
	}

	users, err := a.api.GetUsersContext(ctx)
	if err != nil {
		return "", errors.Wrap(err, "listing users")
	}
	for _, user := range users {
		a.rememberUser(user.ID, user.Name)
		if user.Name == nickname {
			id = user.ID
		}
	}
	if id == "" {
		return "", errors.Errorf("unknown user %q", nickname)
	}
	return id, nil
}

// channelID accepts a channel ID or a channel link such as <#C0123|general>.
func channelID(channel string) string {
	if m := channelLinkRE.FindStringSubmatch(channel); m != nil {
		return m[1]
	}
	return channel
}

func (a *Adapter) post(ctx context.Context, to, text string) error {
	if a.opts.DevMode {
		a.logf("should send %q to %s", text, to)
		return nil
	}

	_, _, err := a.api.PostMessageContext(ctx, to, slack.MsgOptionText(text, false), slack.MsgOptionAsUser(true))
	return err
}

// SendChannelMessage sends text to channel, prefixed with the addressee's name.
func (a *Adapter) SendChannelMessage(ctx context.Context, text, channel, addressee string) error {
	if text == "" {
		return nil
	}
	if addressee != "" {
		text = addressee + ", " + text
	}

	return a.post(ctx, channelID(channel), text)
}

// SendPrivateMessage sends text to the user called nickname.
func (a *Adapter) SendPrivateMessage(ctx context.Context, text, nickname string) error {
	if text == "" {
		return nil
	}

	userID, err := a.userID(ctx, nickname)
	if err != nil {
		return err
	}
	return a.post(ctx, userID, text)
}

// JoinChannel joins channel, given by ID or channel link.
func (a *Adapter) JoinChannel(ctx context.Context, channel string) error {
	id := channelID(channel)
	if a.opts.DevMode {
		a.logf("should join %s", id)
		return nil
	}

	_, _, _, err := a.api.JoinConversationContext(ctx, id)
	return errors.Wrapf(err, "joining %s", channel)
}

// LeaveChannel leaves channel, given by ID or channel link.
func (a *Adapter) LeaveChannel(ctx context.Context, channel string) error {
	id := channelID(channel)
	if a.opts.DevMode {
		a.logf("should leave %s", id)
		return nil
	}

	_, err := a.api.LeaveConversationContext(ctx, id)
	return errors.Wrapf(err, "leaving %s", channel)
}

// Kick removes nickname from channel. Slack has no kick reasons, so reason is only logged.
func (a *Adapter) Kick(ctx context.Context, channel, nickname, reason string) error {
	userID, err := a.userID(ctx, nickname)
	if err != nil {
		return err
	}

	a.logf("Kicking %s from %s: %q", nickname, channel, reason)
	if a.opts.DevMode {
		return nil
	}
	return errors.Wrapf(a.api.KickUserFromConversationContext(ctx, channelID(channel), userID), "kicking %s from %s", nickname, channel)
}

// Disconnect closes the RTM connection, which ends Run.
func (a *Adapter) Disconnect() error {
	return a.rtm.Disconnect()
}
