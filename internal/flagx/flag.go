// Package flagx lets several configuration stages each parse only the
// command-line flags they own.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs returns the subset of args made of allowed flags and their
// values. Both "-c conf.json" and "--config=conf.json" forms are kept; a
// following token that starts with '-' is never taken as a value.
//
// The result is never nil.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// lookupPath parses a single path-valued flag registered under a short and a
// long name. The last occurrence wins; an absent flag yields "".
func lookupPath(args []string, short, long, usage string) string {
	var path string

	fs := flag.NewFlagSet(long, flag.ContinueOnError)
	fs.SetOutput(nopWriter{})
	fs.StringVar(&path, long, "", usage)
	fs.StringVar(&path, short, "", usage+" (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-" + short, "-" + long}))

	return path
}

// JsonConfigFlags returns the JSON config path given with -c or -config.
func JsonConfigFlags() string {
	return lookupPath(os.Args[1:], "c", "config", "Path to config file")
}

// EnvFileFlags returns the dotenv path given with -e or -env-file.
func EnvFileFlags() string {
	return lookupPath(os.Args[1:], "e", "env-file", "Path to .env file")
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
