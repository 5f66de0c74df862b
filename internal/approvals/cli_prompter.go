package approvals

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/cyphera/wallet-rpc/internal/rpcerrors"
)

// CliPrompter answers approvals interactively on a terminal.
// "y" approves, "n" declines, anything else cancels the dialog.
type CliPrompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewCliPrompter(in io.Reader, out io.Writer) *CliPrompter {
	return &CliPrompter{in: bufio.NewScanner(in), out: out}
}

func (p *CliPrompter) RequestApproval(_ context.Context, req Request) (*Result, error) {
	_, _ = fmt.Fprintf(p.out, "Request from %s: %s\n", req.Origin, req.Type)
	keys := make([]string, 0, len(req.RequestData))
	for k := range req.RequestData {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_, _ = fmt.Fprintf(p.out, "  %s: %v\n", k, req.RequestData[k])
	}
	_, _ = fmt.Fprintf(p.out, "Approve? [y/n]: ")

	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}

	switch strings.ToLower(strings.TrimSpace(p.in.Text())) {
	case "y", "yes":
		return &Result{Approved: true}, nil
	case "n", "no":
		return &Result{Approved: false}, nil
	default:
		return nil, rpcerrors.UserRejectedRequest()
	}
}
