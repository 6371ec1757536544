package config

// Bot is the optional hot-deal alert. An empty token disables it.
type Bot struct {
	Token       string `env:"BOT_TOKEN" json:"-"`
	ChatID      int64  `env:"BOT_CHAT_ID"`
	MinDiscount int    `env:"BOT_MIN_DISCOUNT" envDefault:"40"`
}

func (b Bot) Enabled() bool {
	return b.Token != ""
}
