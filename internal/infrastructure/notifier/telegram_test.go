package notifier

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mymmrac/telego"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"at_deals/internal/domain/entity"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []*telego.SendMessageParams
}

func (f *fakeSender) SendMessage(_ context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sent = append(f.sent, params)

	return &telego.Message{}, nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.sent)
}

func hotDeal(discount int) *entity.Deal {
	return &entity.Deal{
		SourceID:              "1",
		TitleDE:               "Tom & Jerry <Box>",
		TitleZH:               "猫和老鼠",
		MerchantCanonicalName: "Thalia",
		PriceCurrent:          decimal.NewNullDecimal(decimal.RequireFromString("9.9")),
		PriceOriginal:         decimal.NewNullDecimal(decimal.RequireFromString("19.8")),
		DiscountPercent:       discount,
		SourceURL:             "https://example.at/d?a=1&b=2",
	}
}

func TestFormatDeal(t *testing.T) {
	rq := require.New(t)

	text := FormatDeal(hotDeal(50))
	rq.Contains(text, "<b>-50%</b> Tom &amp; Jerry &lt;Box&gt;")
	rq.Contains(text, "猫和老鼠")
	rq.Contains(text, "9.90 € <s>19.80 €</s>")
	rq.Contains(text, `href="https://example.at/d?a=1&amp;b=2"`)
}

func TestTelegramBotRun(t *testing.T) {
	rq := require.New(t)

	sender := &fakeSender{}
	bot := newTelegramBot(sender, 42, 40, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bot.DealInserted(ctx, hotDeal(10))
	bot.DealInserted(ctx, hotDeal(50))
	bot.DealInserted(ctx, hotDeal(60)) // queue of one is full

	done := make(chan error, 1)
	go func() { done <- bot.Run(ctx) }()

	rq.Eventually(func() bool { return sender.count() == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	rq.NoError(<-done)

	rq.Equal(telego.ModeHTML, sender.sent[0].ParseMode)
	rq.Equal(int64(42), sender.sent[0].ChatID.ID)
}
