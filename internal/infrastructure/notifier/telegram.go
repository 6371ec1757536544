package notifier

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"at_deals/internal/domain/entity"
	"at_deals/pkg/logx"
)

const defaultQueueSize = 64

type sender interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

// TelegramBot announces freshly inserted deals whose discount reaches the
// threshold. Sending happens in Run so the pipeline never waits on Telegram.
type TelegramBot struct {
	bot         sender
	chatID      int64
	minDiscount int
	deals       chan *entity.Deal
}

func NewTelegramBot(token string, chatID int64, minDiscount int) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return newTelegramBot(bot, chatID, minDiscount, defaultQueueSize), nil
}

func newTelegramBot(bot sender, chatID int64, minDiscount, queueSize int) *TelegramBot {
	return &TelegramBot{
		bot:         bot,
		chatID:      chatID,
		minDiscount: minDiscount,
		deals:       make(chan *entity.Deal, queueSize),
	}
}

// DealInserted queues the deal when it is hot enough. A full queue drops it.
func (b *TelegramBot) DealInserted(ctx context.Context, deal *entity.Deal) {
	if deal.DiscountPercent < b.minDiscount {
		return
	}

	select {
	case b.deals <- deal:
	default:
		logger(ctx).Warn("notification queue full, deal dropped", slog.String(logx.FieldSourceID, deal.SourceID))
	}
}

// Run отправляет сделки из очереди до отмены контекста.
func (b *TelegramBot) Run(ctx context.Context) error {
	logger(ctx).Info("telegram notifier started", slog.Int("min-discount", b.minDiscount))

	for {
		select {
		case <-ctx.Done():
			logger(ctx).Info("telegram notifier stopped")
			return nil
		case deal := <-b.deals:
			if err := b.SendDeal(ctx, deal); err != nil {
				logger(ctx).Error("failed to send deal", slog.String(logx.FieldSourceID, deal.SourceID), logx.Error(err))
			}
		}
	}
}

func (b *TelegramBot) SendDeal(ctx context.Context, deal *entity.Deal) error {
	_, err := b.bot.SendMessage(ctx, tu.Message(tu.ID(b.chatID), FormatDeal(deal)).WithParseMode(telego.ModeHTML))
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

// FormatDeal renders the HTML message body.
func FormatDeal(deal *entity.Deal) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "🔥 <b>-%d%%</b> %s\n", deal.DiscountPercent, html.EscapeString(deal.TitleDE))
	if deal.TitleZH != "" {
		fmt.Fprintf(&sb, "%s\n", html.EscapeString(deal.TitleZH))
	}
	sb.WriteString("\n")

	if deal.MerchantCanonicalName != "" {
		fmt.Fprintf(&sb, "🏬 %s\n", html.EscapeString(deal.MerchantCanonicalName))
	}
	if deal.PriceCurrent.Valid {
		fmt.Fprintf(&sb, "💰 %s €", deal.PriceCurrent.Decimal.StringFixed(2))
		if deal.PriceOriginal.Valid {
			fmt.Fprintf(&sb, " <s>%s €</s>", deal.PriceOriginal.Decimal.StringFixed(2))
		}
		sb.WriteString("\n")
	}
	if deal.SourceURL != "" {
		fmt.Fprintf(&sb, "\n🔗 <a href=\"%s\">Zum Deal</a>", html.EscapeString(deal.SourceURL))
	}

	return strings.TrimRight(sb.String(), "\n")
}
