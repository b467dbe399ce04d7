package handlers

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/gobridge/akumabot/bot"
)

// emulated pings are ten times as likely as each canned answer
const emulatedPingWeight = 10

var (
	pongs   = []string{"Pong!", "WHAT, man?"}
	pingTTL = []int{32, 64, 128}
)

func emulatePing() string {
	return fmt.Sprintf("%d bytes from 127.0.0.1: icmp_seq=1 ttl=%d time=%.3f ms",
		24+rand.Intn(78-24+1), pingTTL[rand.Intn(len(pingTTL))], rand.Float64())
}

// Ping answers to show the bot is still listening.
func Ping() *bot.Command {
	return &bot.Command{
		Name:  "ping",
		Usage: "%s   Verify I'm still attentive",
		Run: func(ctx context.Context, inv *bot.Invocation) *bot.Future {
			n := rand.Intn(len(pongs) + emulatedPingWeight)
			if n < len(pongs) {
				return bot.Reply(pongs[n])
			}
			return bot.Reply(emulatePing())
		},
	}
}

// PMMe sends its argument back to the caller in private.
func PMMe() *bot.Command {
	cmd := &bot.Command{
		Name:  "pmme",
		Usage: "%s <message>",
	}
	cmd.Run = func(ctx context.Context, inv *bot.Invocation) *bot.Future {
		if len(inv.Args) != 1 {
			return usage(cmd)
		}

		message := inv.Args[0]
		return bot.Async(func() (string, error) {
			return "", inv.Chat.SendPrivateMessage(ctx, message, inv.Nickname)
		})
	}
	return cmd
}
