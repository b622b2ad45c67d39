package federation

import (
	"fmt"

	"github.com/burrow-social/burrow/util"
)

// Config is the immutable federation configuration, built once at process
// start and passed by handle to every component that needs it.
type Config struct {
	Hostname string
	Protocol string
}

func NewConfig(conf *util.AppConfig) Config {
	return Config{
		Hostname: conf.Conf.SslDomain,
		Protocol: conf.Conf.Protocol,
	}
}

// BaseURL returns protocol://hostname without a trailing slash.
func (c Config) BaseURL() string {
	return fmt.Sprintf("%s://%s", c.Protocol, c.Hostname)
}
