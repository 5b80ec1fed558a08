package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	log "github.com/sirupsen/logrus"

	commoncli "github.com/twitter/conduct/common/client"
	"github.com/twitter/conduct/conductr/client"
)

// printVerbose writes the reply body as indented JSON when --verbose is set.
func printVerbose(cl *commoncli.SimpleClient, w io.Writer, reply *client.Reply) {
	if !cl.Verbose || reply == nil || len(bytes.TrimSpace(reply.Body)) == 0 {
		return
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, reply.Body, "", "  "); err != nil {
		fmt.Fprintln(w, string(reply.Body))
		return
	}
	fmt.Fprintln(w, buf.String())
}

func dump(what string, v interface{}) {
	if log.IsLevelEnabled(log.DebugLevel) {
		log.Debugf("%s:\n%s", what, spew.Sdump(v))
	}
}
