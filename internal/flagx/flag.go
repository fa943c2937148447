// Package flagx helps components share os.Args without stepping on each
// other: every configuration layer parses only the flags it owns and leaves
// the rest for someone else.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs keeps only the flags named in allowed, together with their
// values, and drops everything else.
//
// Two spellings are recognized:
//
//	-a http://origin:8080     value as the following argument
//	-a=http://origin:8080     value attached with '='
//
// A token starting with '-' is never consumed as a value, so "-c -a" keeps
// both flags. The result is never nil.
func FilterArgs(args []string, allowed []string) []string {
	keep := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		keep[name] = struct{}{}
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		// "-flag=value" travels as a single token.
		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if _, allowed := keep[name]; allowed {
				out = append(out, arg)
			}
			continue
		}

		if _, allowed := keep[arg]; !allowed {
			continue
		}
		out = append(out, arg)

		// The value, when present, is the next token unless it looks like
		// another flag.
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}

	return out
}

// JsonConfigFlags returns the config file path passed via -c or -config,
// or the empty string when neither flag is present. All other arguments
// are ignored, so this is safe to call before the full flag set of the
// program is defined.
func JsonConfigFlags() string {
	args := FilterArgs(os.Args[1:], []string{"-c", "-config"})

	var path string
	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to a JSON config file")
	fs.StringVar(&path, "c", "", "path to a JSON config file (shorthand)")
	_ = fs.Parse(args)

	return path
}
