package config

import (
	"errors"
	"flag"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses the process command line.
//
// Flags:
//
//	-a server listen address in format [host]:[port]
//	-s remote server address used by the client in format [host]:[port]
//	-d database DSN
//	-r redis URL
//	-l local store DSN
//	-local-driver local store driver (sqlite, bolt)
//	-c/-config json file path with configs
//	-token-sign-key credential signing key
//	-api-keys comma separated project API keys
//	-hash-key HMAC key of the document write signature
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-debounce sync debounce window (e.g., "2s")
//	-log-file client log file
func ParseFlags() (*StructuredConfig, error) {
	return parseFlags(os.Args[1:])
}

func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("lks-registry", flag.ContinueOnError)

	var serverAddress, adapterAddress NetAddress
	var databaseDSN, redisURL string
	var localDSN, localDriver string
	var jsonConfigPath string
	var tokenSignKey, apiKeys, hashKey string
	var requestTimeout, debounce time.Duration
	var logFile string

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.Var(&adapterAddress, "s", "Remote server address host:port")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&redisURL, "r", "", "Redis URL")
	fs.StringVar(&localDSN, "l", "", "Local store DSN")
	fs.StringVar(&localDriver, "local-driver", "", "Local store driver (sqlite, bolt)")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Credential signing key")
	fs.StringVar(&apiKeys, "api-keys", "", "Comma separated project API keys")
	fs.StringVar(&hashKey, "hash-key", "", "Document write signature key")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&debounce, "debounce", 0, "Sync debounce window (e.g., 2s)")
	fs.StringVar(&logFile, "log-file", "", "Client log file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	var keys []string
	if apiKeys != "" {
		keys = strings.Split(apiKeys, ",")
	}

	return &StructuredConfig{
		App: App{
			TokenSignKey: tokenSignKey,
			APIKeys:      keys,
			HashKey:      hashKey,
		},
		Storage: Storage{
			DB:    DB{DSN: databaseDSN},
			Redis: Redis{URL: redisURL},
			Local: Local{Driver: localDriver, DSN: localDSN},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Adapter: Adapter{
			HTTPAddress:    adapterAddress.String(),
			RequestTimeout: requestTimeout,
			HashKey:        hashKey,
		},
		Sync:         Sync{DebounceWindow: debounce},
		Log:          Log{FilePath: logFile},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
