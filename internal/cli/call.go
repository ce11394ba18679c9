package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	bridgegrpc "github.com/GriffinCanCode/fsbridge/internal/api/grpc"
	"github.com/GriffinCanCode/fsbridge/internal/client"
	"github.com/GriffinCanCode/fsbridge/internal/providers/filesystem"
	"github.com/GriffinCanCode/fsbridge/internal/types"
)

var callFlags struct {
	addr     string
	grpcAddr string
	args     []string
	dataFile string
	raw      bool
	timeout  time.Duration
}

var callCmd = &cobra.Command{
	Use:   "call <command>",
	Short: "Invoke one command on a running bridge",
	Long: `Invoke one command on a running bridge and print the JSON response.

Examples:
  fsbridge call fs_get_base_dir
  fsbridge call fs_readdir --arg path=/tmp
  fsbridge call fs_write_file --arg path=/tmp/a.bin --data-file ./a.bin
  fsbridge call fs_read_file --arg path=/tmp/a.bin --raw > copy.bin`,
	Args: cobra.ExactArgs(1),
	RunE: runCall,
}

func init() {
	f := callCmd.Flags()
	f.StringVar(&callFlags.addr, "addr", "http://127.0.0.1:8765", "Bridge HTTP base URL")
	f.StringVar(&callFlags.grpcAddr, "grpc", "", "Call over gRPC at this host:port instead of HTTP")
	f.StringArrayVarP(&callFlags.args, "arg", "a", nil, "Command argument as key=value (repeatable)")
	f.StringVar(&callFlags.dataFile, "data-file", "", "File whose bytes become the data argument")
	f.BoolVar(&callFlags.raw, "raw", false, "Write fs_read_file bytes to stdout instead of JSON")
	f.DurationVar(&callFlags.timeout, "timeout", 30*time.Second, "Overall call timeout")
	rootCmd.AddCommand(callCmd)
}

func runCall(cmd *cobra.Command, argv []string) error {
	command := argv[0]
	if callFlags.raw && command != filesystem.CmdReadFile {
		return fmt.Errorf("--raw only applies to %s", filesystem.CmdReadFile)
	}

	args, err := parseArgs(callFlags.args)
	if err != nil {
		return err
	}
	if callFlags.dataFile != "" {
		if err := attachData(args, callFlags.dataFile); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), callFlags.timeout)
	defer cancel()

	var resp *types.Response
	if callFlags.grpcAddr != "" {
		resp, err = callGRPC(ctx, command, args)
	} else {
		resp, err = callHTTP(ctx, command, args)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if callFlags.raw && resp.Success {
		return writeRaw(out, resp.Data)
	}
	if err := printJSON(out, resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("%s failed", command)
	}
	return nil
}

func callHTTP(ctx context.Context, command string, args map[string]interface{}) (*types.Response, error) {
	c := client.New(callFlags.addr, client.WithTimeout(callFlags.timeout))

	var data json.RawMessage
	err := c.Invoke(ctx, command, args, &data)

	var cmdErr *client.CommandError
	switch {
	case errors.As(err, &cmdErr):
		msg := cmdErr.Message
		return &types.Response{Success: false, Error: &msg, Kind: cmdErr.Kind}, nil
	case err != nil:
		return nil, err
	}
	return &types.Response{Success: true, Data: data}, nil
}

func callGRPC(ctx context.Context, command string, args map[string]interface{}) (*types.Response, error) {
	c, err := bridgegrpc.Dial(callFlags.grpcAddr)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	raw, err := sonic.ConfigStd.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to encode args: %w", err)
	}
	resp, err := c.Invoke(ctx, &types.InvokeRequest{Command: command, Args: raw})
	if err != nil {
		return nil, err
	}

	// re-encode so printing and --raw see the same shape as the HTTP path
	data, err := sonic.ConfigStd.Marshal(resp.Data)
	if err != nil {
		return nil, err
	}
	resp.Data = json.RawMessage(data)
	return resp, nil
}

func writeRaw(w io.Writer, data interface{}) error {
	raw, ok := data.(json.RawMessage)
	if !ok {
		return fmt.Errorf("unexpected result type %T", data)
	}
	var buf types.Bytes
	if err := buf.UnmarshalJSON(raw); err != nil {
		return fmt.Errorf("failed to decode file contents: %w", err)
	}
	_, err := w.Write(buf)
	return err
}

func printJSON(w io.Writer, resp *types.Response) error {
	out, err := sonic.ConfigStd.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
