// Package brew builds brew command lines, runs them through the
// serialized shell queue, and decodes brew's JSON output.
package brew

import "strings"

// Builders return the argument list for one brew invocation. The shell
// core joins arguments into a single command line without any escaping,
// so arguments interpolated from user input are quoted here.

// searchArgs builds `brew search --quiet <query>`.
func searchArgs(query string) []string {
	return []string{"search", "--quiet", quote(query)}
}

// infoArgs builds `brew info --json=v2 <names...>`.
func infoArgs(names []string) []string {
	args := []string{"info", "--json=v2"}
	return append(args, quoteAll(names)...)
}

// installedArgs builds `brew info --json=v2 --installed`.
func installedArgs() []string {
	return []string{"info", "--json=v2", "--installed"}
}

// installArgs builds `brew install [--cask] <name>`.
func installArgs(name string, cask bool) []string {
	args := []string{"install"}
	if cask {
		args = append(args, "--cask")
	}
	return append(args, quote(name))
}

// uninstallArgs builds `brew uninstall [--cask] <name>`.
func uninstallArgs(name string, cask bool) []string {
	args := []string{"uninstall"}
	if cask {
		args = append(args, "--cask")
	}
	return append(args, quote(name))
}

// upgradeArgs builds `brew upgrade [<names...>]`. No names upgrades
// everything that is outdated.
func upgradeArgs(names []string) []string {
	return append([]string{"upgrade"}, quoteAll(names)...)
}

// listArgs builds `brew list -1`.
func listArgs() []string {
	return []string{"list", "-1"}
}

// outdatedArgs builds `brew outdated --json=v2`.
func outdatedArgs() []string {
	return []string{"outdated", "--json=v2"}
}

// updateArgs builds `brew update`.
func updateArgs() []string {
	return []string{"update"}
}

// versionArgs builds `brew --version`.
func versionArgs() []string {
	return []string{"--version"}
}

// plainChars are the characters that never need quoting on a shell line.
const plainChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789@%_+=:,./-"

// quote single-quotes an argument unless it consists entirely of
// shell-safe characters.
func quote(arg string) string {
	if arg != "" && isPlain(arg) {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}

func quoteAll(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = quote(a)
	}
	return out
}

func isPlain(arg string) bool {
	for _, r := range arg {
		if !strings.ContainsRune(plainChars, r) {
			return false
		}
	}
	return true
}
