package cmd_search

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rskv-p/searchlab/servs/s_search/search_api"
	"github.com/rskv-p/searchlab/servs/s_search/search_client"
	"github.com/rskv-p/searchlab/servs/s_search/search_serv"

	"github.com/spf13/cobra"
)

var (
	addr  string
	token string
)

// Cmd talks to a running server.
var Cmd = &cobra.Command{
	Use:   "search",
	Short: "Call a running searchlab server",
}

func client() *search_client.RESTClient {
	t := token
	if t == "" {
		t = os.Getenv("SEARCH_TOKEN")
	}
	return search_client.NewRESTClient(addr, t)
}

func kindArg(args []string) (search_serv.Kind, error) {
	return search_serv.ParseKind(args[0])
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var createCmd = &cobra.Command{
	Use:   "create <kind>",
	Short: "Allocate a structure",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := kindArg(args)
		if err != nil {
			return err
		}
		var req search_api.CreateRequest
		req.Size, _ = cmd.Flags().GetInt("size")
		req.Digits, _ = cmd.Flags().GetInt("digits")
		req.M, _ = cmd.Flags().GetInt("m")
		req.BucketSize, _ = cmd.Flags().GetInt("bucket-size")
		req.Encoding, _ = cmd.Flags().GetString("encoding")
		req.Alphabet, _ = cmd.Flags().GetString("alphabet")
		if h, _ := cmd.Flags().GetString("hash"); h != "" {
			req.Hash = map[string]any{"type": h}
		}
		st, err := client().Create(kind, req)
		if err != nil {
			return err
		}
		return printJSON(cmd, st)
	},
}

// keyCmd builds insert, find and delete, which share their shape.
func keyCmd[T any](use, short string, call func(*search_client.RESTClient, search_serv.Kind, string) (*T, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <kind> <key>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := kindArg(args)
			if err != nil {
				return err
			}
			resp, err := call(client(), kind, args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		},
	}
}

var stateCmd = &cobra.Command{
	Use:   "state <kind>",
	Short: "Show a structure",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := kindArg(args)
		if err != nil {
			return err
		}
		st, err := client().State(kind)
		if err != nil {
			return err
		}
		return printJSON(cmd, st)
	},
}

var nodesCmd = &cobra.Command{
	Use:   "nodes <tree>",
	Short: "Print the nodes of a tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := kindArg(args)
		if err != nil {
			return err
		}
		view, err := client().Nodes(kind)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), view.Dump)
		return err
	},
}

var setHashCmd = &cobra.Command{
	Use:   "set-hash <mod|square|truncation|folding>",
	Short: "Choose the hash function (drops the table unless --rehash)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]any{"type": args[0]}
		if p, _ := cmd.Flags().GetString("positions"); p != "" {
			body["positions"] = p
		}
		if g, _ := cmd.Flags().GetInt("group-size"); g > 0 {
			body["group_size"] = g
		}
		if op, _ := cmd.Flags().GetString("operation"); op != "" {
			body["operation"] = op
		}
		if r, _ := cmd.Flags().GetBool("rehash"); r {
			body["rehash"] = true
		}
		if err := client().SetHash(body); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "hash function set")
		return nil
	},
}

var setCollisionCmd = &cobra.Command{
	Use:   "set-collision <linear|quadratic|double|chaining>",
	Short: "Choose the collision strategy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]any{"type": args[0]}
		if s, _ := cmd.Flags().GetString("second"); s != "" {
			body["second_hash_type"] = s
		}
		if err := client().SetCollision(body); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "collision strategy set")
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history [kind]",
	Short: "List journaled operations",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := ""
		if len(args) == 1 {
			kind = args[0]
		}
		limit, _ := cmd.Flags().GetInt("limit")
		ops, err := client().History(kind, limit)
		if err != nil {
			return err
		}
		for _, op := range ops {
			line := fmt.Sprintf("%5d %s %-16s %-13s %s [%s]", op.Seq, op.CreatedAt.Format("15:04:05"), op.Kind, op.Op, op.Key, op.Positions)
			if op.Error != "" {
				line += " " + op.ErrorKind
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-operation counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := client().Stats()
		if err != nil {
			return err
		}
		for _, op := range st.Operations {
			fmt.Fprintf(cmd.OutOrStdout(), "%-16s %-13s n=%d err=%d avg=%s\n",
				op.Kind, op.Op, op.NumRequests, op.NumErrors, op.AverageProcessingTime)
		}
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Print a token for --token or SEARCH_TOKEN",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")
		if username == "" || password == "" {
			return fmt.Errorf("both --username and --password are required")
		}
		tok, err := client().Login(username, password)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	Cmd.PersistentFlags().StringVar(&addr, "addr", "http://localhost:8000", "server base URL")
	Cmd.PersistentFlags().StringVar(&token, "token", "", "bearer token (default $SEARCH_TOKEN)")

	createCmd.Flags().Int("size", 0, "number of slots")
	createCmd.Flags().Int("digits", 0, "key width")
	createCmd.Flags().Int("m", 0, "bits per level (multiple-residue)")
	createCmd.Flags().Int("bucket-size", 0, "slots per bucket (bucket-hash)")
	createCmd.Flags().String("hash", "", "hash function (bucket-hash)")
	createCmd.Flags().String("encoding", "", "ABC or ASCII (trees)")
	createCmd.Flags().String("alphabet", "", "en or es (trees)")

	setHashCmd.Flags().String("positions", "", "truncation positions, e.g. 1,3")
	setHashCmd.Flags().Int("group-size", 0, "folding group size")
	setHashCmd.Flags().String("operation", "", "folding operation: sum or mul")
	setHashCmd.Flags().Bool("rehash", false, "keep keys under the new function")

	setCollisionCmd.Flags().String("second", "", "secondary hash for double hashing")
	historyCmd.Flags().Int("limit", 20, "maximum entries")

	loginCmd.Flags().String("username", "", "Username")
	loginCmd.Flags().String("password", "", "Password")

	Cmd.AddCommand(createCmd, stateCmd, nodesCmd, setHashCmd, setCollisionCmd, historyCmd, statsCmd, loginCmd)
	Cmd.AddCommand(
		keyCmd("insert", "Insert a key", (*search_client.RESTClient).Insert),
		keyCmd("find", "Search for a key", (*search_client.RESTClient).Search),
		keyCmd("delete", "Delete a key", (*search_client.RESTClient).Delete),
	)
}
