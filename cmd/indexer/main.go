package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/newplayman/indexer-client/internal/config"
	"github.com/newplayman/indexer-client/pkg/indexer"
)

func main() {
	configFile := flag.String("config", "", "配置文件路径（为空时使用默认值与环境变量）")
	logLevel := flag.String("log", "", "日志级别: debug, info, warn, error（默认取配置）")
	network := flag.String("network", "", "覆盖配置中的网络: mainnet | testnet")
	endpoint := flag.String("endpoint", "", "覆盖配置中的 REST 端点")
	flag.Usage = usage
	flag.Parse()

	setupLogger("info")

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("加载配置失败")
	}
	level := cfg.Global.LogLevel
	if *logLevel != "" {
		level = *logLevel
	}
	setupLogger(level)

	clientCfg := cfg.ClientConfig()
	switch *network {
	case "":
	case config.NetworkMainnet:
		clientCfg.RESTEndpoint, clientCfg.WebsocketEndpoint = indexer.MainnetRESTEndpoint, indexer.MainnetWebsocketEndpoint
	case config.NetworkTestnet:
		clientCfg.RESTEndpoint, clientCfg.WebsocketEndpoint = indexer.TestnetRESTEndpoint, indexer.TestnetWebsocketEndpoint
	default:
		log.Fatal().Str("network", *network).Msg("未知网络")
	}
	if *endpoint != "" {
		clientCfg.RESTEndpoint = *endpoint
	}

	client, err := indexer.NewClient(clientCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("创建索引器客户端失败")
	}

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}
	name, args := flag.Arg(0), flag.Args()[1:]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "未知命令: %s\n\n", name)
		usage()
		os.Exit(2)
	}

	result, err := cmd.run(&env{client: client, cfg: cfg}, args)
	if err != nil {
		log.Fatal().Err(err).Str("command", name).Msg("命令执行失败")
	}
	if result != nil {
		if err := printJSON(result); err != nil {
			log.Fatal().Err(err).Msg("输出结果失败")
		}
	}
}

// setupLogger 设置日志，输出到 stderr，stdout 只用于结果
func setupLogger(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "用法: %s [全局参数] <命令> [命令参数]\n\n全局参数:\n", os.Args[0])
	flag.PrintDefaults()
	fmt.Fprintln(out, "\n命令:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %-12s %s\n", name, commands[name].summary)
	}
}
