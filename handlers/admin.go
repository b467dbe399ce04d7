package handlers

import (
	"context"
	"math/rand"
	"strconv"
	"time"

	"github.com/gobridge/akumabot/bot"
)

const (
	minQuitDelay = 5
	maxQuitDelay = 60

	leaveDelay = time.Second
	kickDelay  = time.Second
)

var leaveRebukes = []string{
	"I can tell when I'm not wanted.",
	"Fine. Be that way.",
	"I think you ought to know I'm feeling very depressed.",
}

// Quit disconnects the bot after a delay of 5 to 60 seconds.
func Quit(after Scheduler, logf bot.Logger) *bot.Command {
	cmd := &bot.Command{
		Name:      "quit",
		AdminOnly: true,
		Usage:     "%s <delay_in_seconds>   Disconnect from the server",
	}
	cmd.Run = func(ctx context.Context, inv *bot.Invocation) *bot.Future {
		if len(inv.Args) != 1 {
			return usage(cmd)
		}

		delay, err := strconv.Atoi(inv.Args[0])
		if err != nil || delay < minQuitDelay || delay > maxQuitDelay {
			return bot.Replyf("Delay must be an integer between %d and %d", minQuitDelay, maxQuitDelay)
		}

		after(time.Duration(delay)*time.Second, func() {
			logf("Disconnecting as requested by %s", inv.Nickname)
			if err := inv.Chat.Disconnect(); err != nil {
				logf("failed to disconnect: %v", err)
			}
		})
		return bot.Replyf("Disconnecting in %d seconds", delay)
	}
	return cmd
}

// Leave makes the bot leave the channel it was asked in.
func Leave(after Scheduler, logf bot.Logger) *bot.Command {
	return &bot.Command{
		Name:        "leave",
		AdminOnly:   true,
		ChannelOnly: true,
		Usage:       "%s  Leave the current channel",
		Run: func(ctx context.Context, inv *bot.Invocation) *bot.Future {
			after(leaveDelay, func() {
				if err := inv.Chat.LeaveChannel(context.Background(), inv.Channel); err != nil {
					logf("failed to leave %s: %v", inv.Channel, err)
				}
			})
			return bot.Reply(leaveRebukes[rand.Intn(len(leaveRebukes))])
		},
	}
}

// Join makes the bot join another channel.
func Join() *bot.Command {
	cmd := &bot.Command{
		Name:      "join",
		AdminOnly: true,
		Usage:     "%s <channel>   Join another channel",
	}
	cmd.Run = func(ctx context.Context, inv *bot.Invocation) *bot.Future {
		if len(inv.Args) != 1 {
			return usage(cmd)
		}

		channel := inv.Args[0]
		return bot.Async(func() (string, error) {
			return "", inv.Chat.JoinChannel(ctx, channel)
		})
	}
	return cmd
}

// Kick removes a user from a channel. It is only accepted in private messages.
func Kick(after Scheduler, logf bot.Logger) *bot.Command {
	cmd := &bot.Command{
		Name:      "kick",
		AdminOnly: true,
		PMOnly:    true,
		Usage:     "%s <user> <channel> [<reason>]   Kick a user from this channel",
	}
	cmd.Run = func(ctx context.Context, inv *bot.Invocation) *bot.Future {
		var user, channel, reason string
		switch len(inv.Args) {
		case 2:
			user, channel = inv.Args[0], inv.Args[1]
		case 3:
			user, channel, reason = inv.Args[0], inv.Args[1], inv.Args[2]
		default:
			return usage(cmd)
		}

		after(kickDelay, func() {
			logf("Kicking %s from %s as requested by %s", user, channel, inv.Nickname)
			if err := inv.Chat.Kick(context.Background(), channel, user, reason); err != nil {
				logf("failed to kick %s from %s: %v", user, channel, err)
			}
		})
		return bot.NoReply()
	}
	return cmd
}
