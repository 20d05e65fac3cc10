package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// CommandHandler maps a received bot command to a reply message.
type CommandHandler func(command string) string

type update struct {
	UpdateID int64 `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

type updatesResponse struct {
	OK     bool     `json:"ok"`
	Result []update `json:"result"`
}

// StartPolling long-polls getUpdates and dispatches commands to the handler.
// It blocks until the context is cancelled, so run it in its own goroutine.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	log.Printf("[INFO] Telegram command polling started")
	var offset int64
	for {
		select {
		case <-ctx.Done():
			log.Printf("[INFO] Telegram command polling stopped")
			return
		default:
		}

		updates, err := t.getUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("[WARN] Telegram getUpdates failed: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		for _, u := range updates {
			offset = u.UpdateID + 1
			if u.Message == nil || !strings.HasPrefix(u.Message.Text, "/") {
				continue
			}
			if fmt.Sprintf("%d", u.Message.Chat.ID) != t.ChatID {
				continue
			}
			command := strings.Fields(u.Message.Text)[0]
			command = strings.SplitN(command, "@", 2)[0]
			log.Printf("[INFO] Received command: %s", command)
			reply := handler(command)
			if reply == "" {
				continue
			}
			if err := t.Send(reply); err != nil {
				log.Printf("[WARN] Failed to reply to %s: %v", command, err)
			}
		}
	}
}

func (t *TelegramNotifier) getUpdates(ctx context.Context, offset int64) ([]update, error) {
	apiURL := fmt.Sprintf("https://api.telegram.org/bot%s/getUpdates?timeout=30&offset=%d",
		t.BotToken, offset)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get updates: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram API error: status %d", resp.StatusCode)
	}
	var parsed updatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode updates: %w", err)
	}
	if !parsed.OK {
		return nil, fmt.Errorf("telegram API returned ok=false")
	}
	return parsed.Result, nil
}
