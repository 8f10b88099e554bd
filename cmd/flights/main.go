package main

import (
	"context"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/franciscopereira987/opensky-flights/cmd/flights/common"
	"github.com/franciscopereira987/opensky-flights/pkg/airports"
	"github.com/franciscopereira987/opensky-flights/pkg/enrich"
	"github.com/franciscopereira987/opensky-flights/pkg/isotime"
	"github.com/franciscopereira987/opensky-flights/pkg/metrics"
	mid "github.com/franciscopereira987/opensky-flights/pkg/middleware"
	"github.com/franciscopereira987/opensky-flights/pkg/opensky"
	"github.com/franciscopereira987/opensky-flights/pkg/utils"
)

var configVars = []string{
	"log.level",
	"opensky.url",
	"opensky.username",
	"opensky.password",
	"opensky.client_id",
	"opensky.token_url",
	"opensky.timeout",
	"data.airports",
	"time.zone",
	"output.dir",
	"output.format",
	"amqp.url",
	"amqp.exchange",
	"amqp.shards",
	"metrics.textfile",
}

var bindings = map[string]string{
	"query.airport":   "airport",
	"query.begin":     "begin",
	"query.end":       "end",
	"query.direction": "direction",
	"query.raw":       "raw",
	"output.dir":      "out-dir",
	"output.format":   "format",
}

func parseFlags() (*pflag.FlagSet, string) {
	flags := pflag.NewFlagSet("flights", pflag.ExitOnError)
	configPath := flags.String("config", "config.yaml", "path to the config file")
	flags.String("airport", "", "ICAO code of the airport")
	flags.String("begin", "", "start of the interval, YYYY-MM-DDTHH:MM:SSZ")
	flags.String("end", "", "end of the interval, YYYY-MM-DDTHH:MM:SSZ")
	flags.String("direction", common.DirectionBoth, "arrivals, departures or both")
	flags.String("out-dir", ".", "directory for the exported files")
	flags.String("format", "csv", "export format: csv, xlsx or json")
	flags.Bool("raw", false, "store the OpenSky responses without enrichment")
	flags.Parse(os.Args[1:])
	return flags, *configPath
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "INFO")
	v.SetDefault("data.airports", "world_airports.csv")
	v.SetDefault("opensky.timeout", "30s")
	v.SetDefault("amqp.exchange", "flights")
	v.SetDefault("amqp.shards", 1)
}

func newClient(v *viper.Viper) *opensky.Client {
	opts := []opensky.ClientOption{
		opensky.WithTimeout(v.GetDuration("opensky.timeout")),
	}
	if url := v.GetString("opensky.url"); url != "" {
		opts = append(opts, opensky.WithBaseURL(url))
	}
	if id := v.GetString("opensky.client_id"); id != "" {
		opts = append(opts, opensky.WithClientCredentials(id, v.GetString("opensky.client_secret")))
		if tokenURL := v.GetString("opensky.token_url"); tokenURL != "" {
			opts = append(opts, opensky.WithTokenURL(tokenURL))
		}
	} else if user := v.GetString("opensky.username"); user != "" {
		opts = append(opts, opensky.WithCredentials(user, v.GetString("opensky.password")))
	}
	return opensky.NewClient(opts...)
}

func queryConfig(v *viper.Viper, codec isotime.Codec) (common.Config, error) {
	var config common.Config
	if err := utils.Require(v, "query.airport", "query.begin", "query.end"); err != nil {
		return config, err
	}

	begin, err := codec.ParseTime(v.GetString("query.begin"))
	if err != nil {
		return config, err
	}
	end, err := codec.ParseTime(v.GetString("query.end"))
	if err != nil {
		return config, err
	}
	directions, err := common.ParseDirection(v.GetString("query.direction"))
	if err != nil {
		return config, err
	}

	return common.Config{
		Airport:    v.GetString("query.airport"),
		Begin:      begin,
		End:        end,
		Directions: directions,
		OutDir:     v.GetString("output.dir"),
		Format:     v.GetString("output.format"),
		Raw:        v.GetBool("query.raw"),
	}, nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
	log.Info("action: run | result: success")
}

func run() error {
	flags, configPath := parseFlags()
	v, err := utils.InitConfig("flights", configPath, flags, bindings)
	if err != nil {
		return err
	}
	setDefaults(v)
	if err := utils.InitLogger(v.GetString("log.level")); err != nil {
		return err
	}
	utils.PrintConfig(v, configVars...)

	codec, err := isotime.LoadLocation(v.GetString("time.zone"))
	if err != nil {
		return err
	}
	config, err := queryConfig(v, codec)
	if err != nil {
		return err
	}

	dir, err := airports.Open(v.GetString("data.airports"))
	if err != nil {
		return err
	}
	log.Infof("action: load airports | result: success | airports: %d", dir.Len())

	m := metrics.New()
	pipeline := common.NewPipeline(newClient(v), enrich.New(dir, codec), m)

	if url := v.GetString("amqp.url"); url != "" {
		middleware, err := mid.Dial(url)
		if err != nil {
			return err
		}
		defer middleware.Close()

		exchange, err := middleware.ExchangeDeclare(v.GetString("amqp.exchange"))
		if err != nil {
			return err
		}
		pipeline.WithPublisher(middleware, exchange, v.GetInt("amqp.shards"))
	}

	parentCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctx := utils.WithSignal(parentCtx)

	err = pipeline.Run(ctx, config)
	if path := v.GetString("metrics.textfile"); path != "" {
		if err := m.WriteTextfile(path); err != nil {
			log.Errorf("action: write metrics | result: fail | error: %s", err)
		}
	}
	if err != nil && ctx.Err() != nil {
		log.Errorf("action: run | result: fail | cause: %s", context.Cause(ctx))
	}
	return err
}
