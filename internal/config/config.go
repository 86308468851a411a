package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	AppEnv        string `mapstructure:"APP_ENV"`
	Port          string `mapstructure:"PORT"`
	RedisURL      string `mapstructure:"REDIS_URL"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	CookieSecret  string `mapstructure:"COOKIE_SECRET"`
	VotedPageURL  string `mapstructure:"VOTED_PAGE_URL"`
}

// LoadConfig resolves the configuration from the environment. The cookie
// secret is resolved once here and handed to the session signer explicitly;
// nothing else reads it.
func LoadConfig() (config Config, err error) {
	viper.SetDefault("APP_ENV", "local")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("VOTED_PAGE_URL", "https://iwanttoreadmore.com/voted")

	viper.AutomaticEnv()

	err = viper.Unmarshal(&config)
	if err != nil {
		log.Printf("unable to decode into struct, %v", err)
		return
	}

	return
}
