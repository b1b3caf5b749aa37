// wagercli drives a local wager settlement engine: it submits the five
// operations against a leveldb backed state and answers queries. It stands
// in for the surrounding runtime: it supplies the clock, orders operations
// and applies the local index sets.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	log "github.com/inconshreveable/log15"
	"github.com/spf13/cobra"

	"github.com/easywager/easywager/account"
	dbm "github.com/easywager/easywager/common/db"
	"github.com/easywager/easywager/executor"
	"github.com/easywager/easywager/types"
)

var mlog = log.New("module", "wagercli")

var configPath string

const heightKey = "wagercli-exec-height"

func main() {
	rootCmd := &cobra.Command{
		Use:   "wagercli",
		Short: "escrow wager settlement engine cli",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "toml config file")
	rootCmd.AddCommand(
		createCmd(),
		joinCmd(),
		resolveCmd(),
		cancelCmd(),
		updateResolverCmd(),
		depositCmd(),
		queryCmd(),
	)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type env struct {
	cfg     *types.Config
	statedb dbm.DB
	localdb dbm.DB
	wager   *executor.Wager
}

func openEnv() (*env, error) {
	cfg, err := types.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if lvl, err := log.LvlFromString(cfg.LogLevel); err == nil {
		log.Root().SetHandler(log.LvlFilterHandler(lvl, log.StderrHandler))
	}
	statedb, err := dbm.NewDB("state", cfg.DBBackend, cfg.DBPath, 64)
	if err != nil {
		return nil, err
	}
	localdb, err := dbm.NewDB("local", cfg.DBBackend, cfg.DBPath, 64)
	if err != nil {
		statedb.Close()
		return nil, err
	}
	return &env{
		cfg:     cfg,
		statedb: statedb,
		localdb: localdb,
		wager:   executor.New(statedb, localdb, cfg),
	}, nil
}

func (e *env) close() {
	e.statedb.Close()
	e.localdb.Close()
}

func (e *env) nextHeight() int64 {
	var height int64
	if value, err := e.localdb.Get([]byte(heightKey)); err == nil {
		height, _ = strconv.ParseInt(string(value), 10, 64)
	}
	height++
	if err := e.localdb.Set([]byte(heightKey), []byte(strconv.FormatInt(height, 10))); err != nil {
		mlog.Error("nextHeight", "err", err)
	}
	return height
}

// submit run one action end to end: exec, commit, index
func (e *env) submit(from string, action *types.WagerAction) error {
	e.wager.SetEnv(e.nextHeight(), time.Now().Unix())
	tx := &types.Transaction{
		Execer:  []byte(types.WagerX),
		Payload: types.Encode(action),
		From:    from,
	}
	receipt, err := e.wager.Exec(tx, 0)
	if err != nil {
		return err
	}
	set, err := e.wager.ExecLocal(receipt)
	if err != nil {
		return err
	}
	if err := e.wager.WriteLocal(set); err != nil {
		return err
	}
	printJSON(receipt)
	return nil
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		mlog.Error("printJSON", "err", err)
		return
	}
	fmt.Println(string(data))
}

func run(fn func(e *env) error) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()
	return fn(e)
}

func createCmd() *cobra.Command {
	var from, mint, resolver, devWallet string
	var wager, nonce int64
	var payoutBps int32
	var expiresIn time.Duration
	cmd := &cobra.Command{
		Use:   "create",
		Short: "open a wager with fixed terms",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(e *env) error {
				return e.submit(from, &types.WagerAction{
					Ty: types.WagerActionCreate,
					Create: &types.WagerCreate{
						Mint:      mint,
						Wager:     wager,
						PayoutBps: payoutBps,
						ExpiryTs:  time.Now().Add(expiresIn).Unix(),
						Resolver:  resolver,
						DevWallet: devWallet,
						Nonce:     nonce,
					},
				})
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "creator address")
	cmd.Flags().StringVar(&mint, "mint", "", "token symbol, empty for the native coin")
	cmd.Flags().StringVar(&resolver, "resolver", "", "resolver address, defaults to the creator")
	cmd.Flags().StringVar(&devWallet, "dev", "", "fee recipient address")
	cmd.Flags().Int64Var(&wager, "wager", 0, "stake per participant in smallest units")
	cmd.Flags().Int32Var(&payoutBps, "bps", 0, "winner share in basis points (1-9999)")
	cmd.Flags().Int64Var(&nonce, "nonce", 0, "creator-chosen disambiguator")
	cmd.Flags().DurationVar(&expiresIn, "expires-in", time.Hour, "time until expiry")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("dev")
	cmd.MarkFlagRequired("wager")
	cmd.MarkFlagRequired("bps")
	return cmd
}

func joinCmd() *cobra.Command {
	var from, gameID string
	cmd := &cobra.Command{
		Use:   "join",
		Short: "deposit the matching stake into an open wager",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(e *env) error {
				return e.submit(from, &types.WagerAction{
					Ty:   types.WagerActionJoin,
					Join: &types.WagerJoin{GameID: gameID},
				})
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "joining address")
	cmd.Flags().StringVar(&gameID, "game", "", "game id")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("game")
	return cmd
}

func resolveCmd() *cobra.Command {
	var from, gameID, winner string
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "declare the winner and disburse the pot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(e *env) error {
				return e.submit(from, &types.WagerAction{
					Ty:      types.WagerActionResolve,
					Resolve: &types.WagerResolve{GameID: gameID, Winner: winner},
				})
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "resolver address")
	cmd.Flags().StringVar(&gameID, "game", "", "game id")
	cmd.Flags().StringVar(&winner, "winner", "", "winning player address")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("game")
	cmd.MarkFlagRequired("winner")
	return cmd
}

func cancelCmd() *cobra.Command {
	var from, gameID, player2 string
	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "cancel an expired wager and refund deposits",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(e *env) error {
				return e.submit(from, &types.WagerAction{
					Ty:     types.WagerActionCancel,
					Cancel: &types.WagerCancel{GameID: gameID, Player2Account: player2},
				})
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "creator or resolver address")
	cmd.Flags().StringVar(&gameID, "game", "", "game id")
	cmd.Flags().StringVar(&player2, "player2", "", "second player refund destination")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("game")
	return cmd
}

func updateResolverCmd() *cobra.Command {
	var from, gameID, resolver string
	cmd := &cobra.Command{
		Use:   "update-resolver",
		Short: "reassign the resolver of an open wager",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(e *env) error {
				return e.submit(from, &types.WagerAction{
					Ty:             types.WagerActionUpdateResolver,
					UpdateResolver: &types.WagerUpdateResolver{GameID: gameID, NewResolver: resolver},
				})
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "creator address")
	cmd.Flags().StringVar(&gameID, "game", "", "game id")
	cmd.Flags().StringVar(&resolver, "resolver", "", "new resolver address")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("game")
	cmd.MarkFlagRequired("resolver")
	return cmd
}

func depositCmd() *cobra.Command {
	var addr, mint string
	var amount int64
	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "credit balance to an address (local sandbox faucet)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(e *env) error {
				var acc *account.DB
				if mint == "" {
					acc = account.NewCoinsAccount()
				} else {
					tokenAcc, err := account.NewTokenAccount(mint)
					if err != nil {
						return err
					}
					acc = tokenAcc
				}
				acc.SetDB(e.statedb)
				receipt, err := acc.Deposit(addr, amount)
				if err != nil {
					return err
				}
				printJSON(receipt)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "address to credit")
	cmd.Flags().StringVar(&mint, "mint", "", "token symbol, empty for the native coin")
	cmd.Flags().Int64Var(&amount, "amount", 0, "amount in smallest units")
	cmd.MarkFlagRequired("addr")
	cmd.MarkFlagRequired("amount")
	return cmd
}

func queryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "read games and balances",
	}
	cmd.AddCommand(queryGameCmd(), queryListCmd(), queryBalanceCmd())
	return cmd
}

func queryGameCmd() *cobra.Command {
	var gameID string
	cmd := &cobra.Command{
		Use:   "game",
		Short: "show one game record",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(e *env) error {
				game, err := e.wager.GetGame(gameID)
				if err != nil {
					return err
				}
				printJSON(&types.ReplyGame{Game: game})
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&gameID, "id", "", "game id")
	cmd.MarkFlagRequired("id")
	return cmd
}

func queryListCmd() *cobra.Command {
	var addr string
	var status, count, direction int32
	var index int64
	cmd := &cobra.Command{
		Use:   "list",
		Short: "page through games by status, optionally by address",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(e *env) error {
				reply, err := e.wager.ListGameByStatus(status, addr, index, count, direction)
				if err != nil {
					return err
				}
				printJSON(reply)
				return nil
			})
		},
	}
	cmd.Flags().Int32Var(&status, "status", types.GameStatusOpen, "1 open, 2 ready, 3 paid, 4 canceled")
	cmd.Flags().StringVar(&addr, "addr", "", "participant address filter")
	cmd.Flags().Int64Var(&index, "index", 0, "resume after this ordering key")
	cmd.Flags().Int32Var(&count, "count", 0, "page size")
	cmd.Flags().Int32Var(&direction, "direction", 0, "0 descending, 1 ascending")
	return cmd
}

func queryBalanceCmd() *cobra.Command {
	var addr, mint string
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "show the balance of an address",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(e *env) error {
				acc, err := e.wager.GetBalance(addr, mint)
				if err != nil {
					return err
				}
				printJSON(acc)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "address")
	cmd.Flags().StringVar(&mint, "mint", "", "token symbol, empty for the native coin")
	cmd.MarkFlagRequired("addr")
	return cmd
}
