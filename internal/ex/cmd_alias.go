package ex

import (
	"strings"

	"github.com/dshills/vimcore/internal/ex/alias"
)

// cmdDefineAlias is :command. Without an argument, or with only a name,
// it lists aliases; otherwise it defines one, replacing an existing alias
// only with "!".
func cmdDefineAlias(c *Context) (string, error) {
	aliases := c.state.Aliases
	arg := strings.TrimSpace(c.Command.Argument)
	if arg == "" {
		return aliases.Format(""), nil
	}
	def, err := alias.Parse(arg)
	if err != nil {
		return "", err
	}
	if def.ListOnly {
		return aliases.Format(def.Alias.Name), nil
	}
	if len(def.Ignored) > 0 {
		c.logger.Debug("ignoring command attributes", "name", def.Alias.Name, "attributes", def.Ignored)
	}
	return "", aliases.Define(def.Alias, c.Command.Bang)
}

// cmdDeleteAlias is :delcommand.
func cmdDeleteAlias(c *Context) (string, error) {
	return "", c.state.Aliases.Remove(strings.TrimSpace(c.Command.Argument))
}

// cmdClearAliases is :comclear.
func cmdClearAliases(c *Context) (string, error) {
	c.state.Aliases.Clear()
	return "", nil
}
