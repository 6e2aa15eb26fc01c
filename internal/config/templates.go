package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "opcode":
		return opcodeTemplate, nil
	case "passthrough":
		return passthroughTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const opcodeTemplate = `name = "test_msg"

[[fields]]
name = "opcode"
dw = 0
msb = 31
lsb = 24

[[fields]]
name = "sub_opcode"
dw = 0
msb = 15
lsb = 0

[[callbacks]]
name = "read"
action = "log"

[[callbacks]]
name = "write"
action = "log"

[[callbacks]]
name = "reset"
action = "log"

[[indices]]
field = "opcode"
default = []

  [[indices.entries]]
  key = 0
  callbacks = ["read", "write"]

  [[indices.entries]]
  key = 1
  callbacks = ["reset"]

[[indices]]
field = "sub_opcode"
default = ["reset"]

  [[indices.entries]]
  key = 0
  callbacks = ["read", "reset"]

  [[indices.entries]]
  key = 1
  callbacks = ["write", "reset"]
`

const passthroughTemplate = `name = "raw"

[[fields]]
name = "word0"
dw = 0
msb = 31
lsb = 0

[[callbacks]]
name = "all"
action = "log"
`
