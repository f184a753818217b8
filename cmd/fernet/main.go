package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/oarkflow/fernet"
)

const (
	version = "1.0.0"
)

var ttlUnitMultipliers = map[string]time.Duration{
	"":        time.Second,
	"s":       time.Second,
	"sec":     time.Second,
	"secs":    time.Second,
	"second":  time.Second,
	"seconds": time.Second,
	"m":       time.Minute,
	"min":     time.Minute,
	"mins":    time.Minute,
	"minute":  time.Minute,
	"minutes": time.Minute,
	"h":       time.Hour,
	"hr":      time.Hour,
	"hrs":     time.Hour,
	"hour":    time.Hour,
	"hours":   time.Hour,
	"d":       24 * time.Hour,
	"day":     24 * time.Hour,
	"days":    24 * time.Hour,
}

type Config struct {
	KeyInput        string
	EncryptMode     bool
	DecryptMode     bool
	TTLInput        string
	TTL             time.Duration
	Payload         string
	CopyToClipboard bool
	Verbose         bool
	ShowVersion     bool
}

func main() {
	config := parseFlags()

	if config.ShowVersion {
		fmt.Printf("fernet v%s\n", version)
		os.Exit(0)
	}

	if err := validateConfig(config); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	key, err := fernet.NewKey(config.KeyInput)
	if err != nil {
		log.Fatalf("Invalid key: %v", err)
	}

	payload, err := resolvePayload(config)
	if err != nil {
		log.Fatalf("Failed to read payload: %v", err)
	}

	if config.DecryptMode {
		plaintext, err := key.Decrypt(strings.TrimSpace(string(payload)), config.TTL)
		if err != nil {
			log.Fatalf("Token decryption failed: %v", err)
		}
		os.Stdout.Write(plaintext)
		return
	}

	token, err := key.Encrypt(payload)
	if err != nil {
		log.Fatalf("Token encryption failed: %v", err)
	}
	fmt.Println(token)

	if config.CopyToClipboard {
		if err := clipboard.WriteAll(token); err != nil {
			log.Fatalf("Failed to copy token to clipboard: %v", err)
		}
		if config.Verbose {
			fmt.Fprintf(os.Stderr, "✓ Encrypted token ready (copied to clipboard) [len=%d]\n", len(token))
		}
	}
}

func parseFlags() *Config {
	config := &Config{}

	flag.StringVar(&config.KeyInput, "key", "", "Fernet key (padded url-safe base64; defaults to $FERNET_KEY)")
	flag.StringVar(&config.KeyInput, "k", "", "Fernet key (shorthand)")
	flag.BoolVar(&config.EncryptMode, "encrypt", false, "Encrypt the payload into a token")
	flag.BoolVar(&config.EncryptMode, "E", false, "Encrypt the payload into a token (shorthand)")
	flag.BoolVar(&config.DecryptMode, "decrypt", false, "Decrypt a token back into the payload")
	flag.BoolVar(&config.DecryptMode, "D", false, "Decrypt a token back into the payload (shorthand)")
	flag.StringVar(&config.TTLInput, "ttl", "0", "Max token age for decryption (e.g. 60, 10s, 5m, 2h, 0 for none)")
	flag.StringVar(&config.TTLInput, "T", "0", "Max token age for decryption (shorthand)")
	flag.BoolVar(&config.CopyToClipboard, "copy", false, "Copy encrypted token to clipboard")
	flag.BoolVar(&config.CopyToClipboard, "c", false, "Copy encrypted token to clipboard (shorthand)")
	flag.BoolVar(&config.Verbose, "verbose", true, "Enable verbose output")
	flag.BoolVar(&config.Verbose, "v", true, "Enable verbose output (shorthand)")
	showVersion := flag.Bool("version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "fernet v%s - Encrypt and decrypt fernet tokens\n\n", version)
		fmt.Fprintf(os.Stderr, "USAGE:\n")
		fmt.Fprintf(os.Stderr, "  fernet -E [-k <key>] <payload>\n")
		fmt.Fprintf(os.Stderr, "  fernet -D [-k <key>] [-T <ttl>] <token>\n\n")
		fmt.Fprintf(os.Stderr, "EXAMPLES:\n")
		fmt.Fprintf(os.Stderr, "  fernet -E -k \"$(fernet-keygen)\" 'hello world'\n")
		fmt.Fprintf(os.Stderr, "  echo -n secret | fernet -E\n")
		fmt.Fprintf(os.Stderr, "  fernet -D -T 5m gAAAAAB...\n\n")
		fmt.Fprintf(os.Stderr, "OPTIONS:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	config.ShowVersion = *showVersion
	if len(flag.Args()) > 0 {
		config.Payload = flag.Args()[0]
	}

	return config
}

func validateConfig(config *Config) error {
	if config.EncryptMode == config.DecryptMode {
		return fmt.Errorf("exactly one of -E (encrypt) or -D (decrypt) is required")
	}

	if config.KeyInput == "" {
		config.KeyInput = os.Getenv("FERNET_KEY")
	}
	if config.KeyInput == "" {
		return fmt.Errorf("a key is required (-k flag or FERNET_KEY environment variable)")
	}

	ttl, err := parseTTL(config.TTLInput)
	if err != nil {
		return fmt.Errorf("invalid ttl %q: %w", config.TTLInput, err)
	}
	config.TTL = ttl

	return nil
}

// parseTTL accepts bare seconds ("60"), suffixed values ("10s", "5m", "2d"),
// or Go duration syntax ("1h30m"). Zero disables the age check.
func parseTTL(input string) (time.Duration, error) {
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" || input == "0" {
		return 0, nil
	}

	split := strings.IndexFunc(input, func(r rune) bool {
		return r < '0' || r > '9'
	})
	if split == -1 {
		n, err := strconv.ParseInt(input, 10, 64)
		if err != nil {
			return 0, err
		}
		return time.Duration(n) * time.Second, nil
	}

	if mult, ok := ttlUnitMultipliers[input[split:]]; ok {
		n, err := strconv.ParseInt(input[:split], 10, 64)
		if err != nil {
			return 0, err
		}
		return time.Duration(n) * mult, nil
	}

	return time.ParseDuration(input)
}

func resolvePayload(config *Config) ([]byte, error) {
	if config.Payload != "" {
		return []byte(config.Payload), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, err
	}
	if config.EncryptMode {
		return data, nil
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("no payload supplied (argument or stdin)")
	}
	return data, nil
}
