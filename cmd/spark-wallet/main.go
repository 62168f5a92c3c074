// spark-wallet is a command-line client for managing Spark wallets: seed
// custody, account derivation, message signing, and read-only queries
// against a block explorer.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/tetherto/wdk-wallet-spark-sub000/internal/keystore"
	"github.com/tetherto/wdk-wallet-spark-sub000/internal/log"
	"github.com/tetherto/wdk-wallet-spark-sub000/internal/storage"
	"github.com/tetherto/wdk-wallet-spark-sub000/pkg/explorer"
	"github.com/tetherto/wdk-wallet-spark-sub000/pkg/types"
	"github.com/tetherto/wdk-wallet-spark-sub000/pkg/wallet"
)

// keystorePath returns the keystore database path: <datadir>/<network>/keystore
func keystorePath(dataDir, network string) string {
	return filepath.Join(dataDir, network, "keystore")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".spark-wallet"
	}
	return filepath.Join(home, ".spark-wallet")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	dataDir := defaultDataDir()
	network := string(types.Mainnet)
	logLevel := "warn"

	// Scan for global flags before the subcommand.
	args := os.Args[1:]
	for len(args) > 0 {
		switch {
		case args[0] == "--datadir" && len(args) > 1:
			dataDir = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--datadir="):
			dataDir = args[0][len("--datadir="):]
			args = args[1:]
		case args[0] == "--network" && len(args) > 1:
			network = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--network="):
			network = args[0][len("--network="):]
			args = args[1:]
		case args[0] == "--log-level" && len(args) > 1:
			logLevel = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--log-level="):
			logLevel = args[0][len("--log-level="):]
			args = args[1:]
		default:
			goto dispatch
		}
	}

dispatch:
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	net := types.Network(network)
	if !net.Valid() {
		fatal("unknown network %q (mainnet, testnet, regtest)", network)
	}
	if err := log.Init(logLevel, false, ""); err != nil {
		fatal("init logging: %v", err)
	}

	cmd := args[0]
	cmdArgs := args[1:]

	switch cmd {
	case "create":
		cmdCreate(cmdArgs, dataDir, net)
	case "import":
		cmdImport(cmdArgs, dataDir, net)
	case "list":
		cmdList(dataDir, net)
	case "delete":
		cmdDelete(cmdArgs, dataDir, net)
	case "address":
		cmdAddress(cmdArgs, dataDir, net)
	case "accounts":
		cmdAccounts(cmdArgs, dataDir, net)
	case "sign":
		cmdSign(cmdArgs, dataDir, net)
	case "verify":
		cmdVerify(cmdArgs)
	case "balance":
		cmdBalance(cmdArgs, net)
	case "transfers":
		cmdTransfers(cmdArgs, net)
	case "help", "--help", "-h":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: spark-wallet [global flags] <command> [flags]

Global flags:
  --datadir <path>    Data directory (default: ~/.spark-wallet)
  --network <net>     mainnet (default), testnet, or regtest
  --log-level <lvl>   debug, info, warn (default), or error

Commands:
  create --name <n>               Create a new wallet (prints the mnemonic once)
  import --name <n> --mnemonic "..."
                                  Import a wallet from a BIP-39 mnemonic
  list                            List stored wallets
  delete --wallet <w>             Delete a wallet and its metadata
  address --wallet <w> [--index <i>]
                                  Show the Spark address for an account
  accounts --wallet <w>           List recorded accounts
  sign --wallet <w> --message <m> [--index <i>]
                                  Sign a message with the identity key
  verify --message <m> --signature <hex> --pubkey <hex>
                                  Verify a Schnorr signature
  balance --address <addr> --explorer <url>
                                  Show an address balance via a block explorer
  transfers --address <addr> --explorer <url> [--limit <n>] [--skip <n>] [--direction <d>]
                                  List transfers via a block explorer
`)
}

// openStore opens the keystore database for the selected network.
func openStore(dataDir string, network types.Network) (*keystore.Store, func()) {
	db, err := storage.NewBadger(keystorePath(dataDir, string(network)))
	if err != nil {
		fatal("%v", err)
	}
	return keystore.New(db, log.Keystore), func() { db.Close() }
}

// unseal prompts for the passphrase and returns the wallet seed.
func unseal(store *keystore.Store, name string) []byte {
	passphrase, err := readPassphrase("Passphrase: ")
	if err != nil {
		fatal("read passphrase: %v", err)
	}
	defer zero(passphrase)

	seed, _, err := store.Unseal(name, passphrase)
	if err != nil {
		fatal("%v", err)
	}
	return seed
}

func cmdCreate(args []string, dataDir string, network types.Network) {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	name := fs.String("name", "", "wallet name")
	fs.Parse(args)
	if *name == "" {
		fatal("create requires --name")
	}

	mnemonic, err := wallet.GenerateMnemonic()
	if err != nil {
		fatal("generate mnemonic: %v", err)
	}

	passphrase, err := readNewPassphrase()
	if err != nil {
		fatal("%v", err)
	}
	defer zero(passphrase)

	seed, err := wallet.SeedFromMnemonic(mnemonic, "")
	if err != nil {
		fatal("derive seed: %v", err)
	}
	defer zero(seed)

	store, closeStore := openStore(dataDir, network)
	defer closeStore()

	if err := store.Create(*name, seed, passphrase, network, keystore.DefaultParams()); err != nil {
		fatal("%v", err)
	}

	addr := recordAccount(store, *name, seed, network, 0)

	fmt.Printf("Wallet %q created on %s.\n\n", *name, network)
	fmt.Printf("Recovery mnemonic (write it down, it is not shown again):\n\n  %s\n\n", mnemonic)
	fmt.Printf("Account 0 address: %s\n", addr)
}

func cmdImport(args []string, dataDir string, network types.Network) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	name := fs.String("name", "", "wallet name")
	mnemonic := fs.String("mnemonic", "", "BIP-39 mnemonic phrase")
	fs.Parse(args)
	if *name == "" || *mnemonic == "" {
		fatal("import requires --name and --mnemonic")
	}

	seed, err := wallet.SeedFromMnemonic(*mnemonic, "")
	if err != nil {
		fatal("%v", err)
	}
	defer zero(seed)

	passphrase, err := readNewPassphrase()
	if err != nil {
		fatal("%v", err)
	}
	defer zero(passphrase)

	store, closeStore := openStore(dataDir, network)
	defer closeStore()

	if err := store.Create(*name, seed, passphrase, network, keystore.DefaultParams()); err != nil {
		fatal("%v", err)
	}

	addr := recordAccount(store, *name, seed, network, 0)
	fmt.Printf("Wallet %q imported on %s.\nAccount 0 address: %s\n", *name, network, addr)
}

func cmdList(dataDir string, network types.Network) {
	store, closeStore := openStore(dataDir, network)
	defer closeStore()

	names, err := store.List()
	if err != nil {
		fatal("%v", err)
	}
	if len(names) == 0 {
		fmt.Println("No wallets.")
		return
	}
	for _, n := range names {
		fmt.Println(n)
	}
}

func cmdDelete(args []string, dataDir string, network types.Network) {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	name := fs.String("wallet", "", "wallet name")
	fs.Parse(args)
	if *name == "" {
		fatal("delete requires --wallet")
	}

	store, closeStore := openStore(dataDir, network)
	defer closeStore()

	if err := store.Delete(*name); err != nil {
		fatal("%v", err)
	}
	fmt.Printf("Wallet %q deleted.\n", *name)
}

func cmdAddress(args []string, dataDir string, network types.Network) {
	fs := flag.NewFlagSet("address", flag.ExitOnError)
	name := fs.String("wallet", "", "wallet name")
	index := fs.Int("index", 0, "account index")
	fs.Parse(args)
	if *name == "" {
		fatal("address requires --wallet")
	}

	store, closeStore := openStore(dataDir, network)
	defer closeStore()

	seed := unseal(store, *name)
	defer zero(seed)

	addr := recordAccount(store, *name, seed, network, *index)
	fmt.Println(addr)
}

func cmdAccounts(args []string, dataDir string, network types.Network) {
	fs := flag.NewFlagSet("accounts", flag.ExitOnError)
	name := fs.String("wallet", "", "wallet name")
	fs.Parse(args)
	if *name == "" {
		fatal("accounts requires --wallet")
	}

	store, closeStore := openStore(dataDir, network)
	defer closeStore()

	entries, err := store.Accounts(*name)
	if err != nil {
		fatal("%v", err)
	}
	if len(entries) == 0 {
		fmt.Println("No recorded accounts.")
		return
	}
	for _, e := range entries {
		label := ""
		if e.Label != "" {
			label = "  (" + e.Label + ")"
		}
		fmt.Printf("%4d  %s%s\n", e.Index, e.Address, label)
	}
}

func cmdSign(args []string, dataDir string, network types.Network) {
	fs := flag.NewFlagSet("sign", flag.ExitOnError)
	name := fs.String("wallet", "", "wallet name")
	index := fs.Int("index", 0, "account index")
	message := fs.String("message", "", "message to sign")
	fs.Parse(args)
	if *name == "" || *message == "" {
		fatal("sign requires --wallet and --message")
	}

	store, closeStore := openStore(dataDir, network)
	defer closeStore()

	seed := unseal(store, *name)
	defer zero(seed)

	manager, err := wallet.NewManager(wallet.Config{Network: network}, seed)
	if err != nil {
		fatal("%v", err)
	}
	defer manager.Close(context.Background())

	acct, err := manager.Account(context.Background(), *index)
	if err != nil {
		fatal("%v", err)
	}

	sig, err := acct.SignMessage([]byte(*message))
	if err != nil {
		fatal("sign: %v", err)
	}
	kp, err := acct.KeyPair()
	if err != nil {
		fatal("%v", err)
	}

	fmt.Printf("Signature:  %s\n", hex.EncodeToString(sig))
	fmt.Printf("Public key: %s\n", hex.EncodeToString(kp.PublicKey))
}

func cmdVerify(args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	message := fs.String("message", "", "signed message")
	sigHex := fs.String("signature", "", "hex-encoded signature")
	pubHex := fs.String("pubkey", "", "hex-encoded public key")
	fs.Parse(args)
	if *message == "" || *sigHex == "" || *pubHex == "" {
		fatal("verify requires --message, --signature, and --pubkey")
	}

	// Verification is stateless, so a bare signer works.
	var signer wallet.Signer
	ok, err := signer.VerifyHex([]byte(*message), *sigHex, *pubHex)
	if err != nil {
		fatal("%v", err)
	}
	if !ok {
		fmt.Println("Signature: INVALID")
		os.Exit(1)
	}
	fmt.Println("Signature: valid")
}

func cmdBalance(args []string, network types.Network) {
	fs := flag.NewFlagSet("balance", flag.ExitOnError)
	address := fs.String("address", "", "Spark address")
	explorerURL := fs.String("explorer", "", "block explorer base URL")
	fs.Parse(args)
	if *address == "" || *explorerURL == "" {
		fatal("balance requires --address and --explorer")
	}

	client := explorer.New(*explorerURL, log.Explorer)
	acct, err := wallet.NewReadOnlyAccount(client, *address, network, log.Wallet)
	if err != nil {
		fatal("%v", err)
	}

	bal, err := acct.Balance(context.Background())
	if err != nil {
		fatal("%v", err)
	}
	fmt.Printf("%d sats\n", bal.Sats)
}

func cmdTransfers(args []string, network types.Network) {
	fs := flag.NewFlagSet("transfers", flag.ExitOnError)
	address := fs.String("address", "", "Spark address")
	explorerURL := fs.String("explorer", "", "block explorer base URL")
	limit := fs.Int("limit", wallet.DefaultListLimit, "max transfers to return")
	skip := fs.Int("skip", 0, "matching transfers to skip")
	direction := fs.String("direction", "", "incoming or outgoing (default: all)")
	fs.Parse(args)
	if *address == "" || *explorerURL == "" {
		fatal("transfers requires --address and --explorer")
	}

	client := explorer.New(*explorerURL, log.Explorer)
	acct, err := wallet.NewReadOnlyAccount(client, *address, network, log.Wallet)
	if err != nil {
		fatal("%v", err)
	}

	transfers, err := acct.Transfers(context.Background(), wallet.ListOptions{
		Direction: wallet.Direction(*direction),
		Limit:     *limit,
		Skip:      *skip,
	})
	if err != nil {
		fatal("%v", err)
	}
	if len(transfers) == 0 {
		fmt.Println("No transfers.")
		return
	}
	for _, tr := range transfers {
		fmt.Printf("%-12s %-9s %12d sats  %s\n", tr.ID, tr.Direction, tr.AmountSats, tr.CreatedAt.Format("2006-01-02 15:04:05"))
	}
}

// recordAccount derives the account at index, records its address in the
// keystore metadata, and returns the encoded address.
func recordAccount(store *keystore.Store, name string, seed []byte, network types.Network, index int) string {
	manager, err := wallet.NewManager(wallet.Config{Network: network}, seed)
	if err != nil {
		fatal("%v", err)
	}
	defer manager.Close(context.Background())

	acct, err := manager.Account(context.Background(), index)
	if err != nil {
		fatal("%v", err)
	}
	addr, err := acct.Address()
	if err != nil {
		fatal("%v", err)
	}
	if err := store.PutAccount(name, keystore.AccountEntry{Index: index, Address: addr}); err != nil {
		fatal("record account: %v", err)
	}
	return addr
}

// ── Passphrase helpers ──────────────────────────────────────────────────

func readPassphrase(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	passphrase, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return passphrase, nil
}

func readNewPassphrase() ([]byte, error) {
	first, err := readPassphrase("New passphrase: ")
	if err != nil {
		return nil, fmt.Errorf("read passphrase: %w", err)
	}
	second, err := readPassphrase("Confirm passphrase: ")
	if err != nil {
		zero(first)
		return nil, fmt.Errorf("read passphrase: %w", err)
	}
	defer zero(second)

	if string(first) != string(second) {
		zero(first)
		return nil, fmt.Errorf("passphrases do not match")
	}
	return first, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
