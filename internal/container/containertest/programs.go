package containertest

import (
	"bytes"
	"path"
	"strings"
)

// Transform simulates the encryption binary, invoked as
// `<binary> <staged file> <password>`. Files whose extension is ext are
// decrypted back to their recorded original name; any other file is
// encrypted to <stem>.<ext>. The full path of the produced file is appended
// to the manifest at manifestPath. A wrong password exits with status 1.
func Transform(manifestPath, ext string) Program {
	return func(rt *Runtime, args []string) (int, string) {
		if len(args) != 2 {
			return 2, "usage: pman <file> <password>\n"
		}
		staged, password := args[0], args[1]

		data, ok := rt.files[staged]
		if !ok {
			return 1, "pman: cannot open " + staged + "\n"
		}

		dir := path.Dir(staged)
		name := path.Base(staged)

		if path.Ext(name) == "."+ext {
			header, body, found := bytes.Cut(data, []byte("\n"))
			fields := strings.SplitN(string(header), ":", 3)
			if !found || len(fields) != 3 || fields[0] != "ENC" {
				return 1, "pman: not an encrypted file\n"
			}
			if fields[1] != password {
				return 1, "pman: wrong password\n"
			}
			out := path.Join(dir, fields[2])
			rt.WriteFile(out, body)
			rt.AppendLine(manifestPath, out)
			return 0, ""
		}

		stem := strings.TrimSuffix(name, path.Ext(name))
		out := path.Join(dir, stem+"."+ext)
		header := "ENC:" + password + ":" + name + "\n"
		rt.WriteFile(out, append([]byte(header), data...))
		rt.AppendLine(manifestPath, out)
		return 0, ""
	}
}

// Exit returns a program that always exits with code and prints output.
func Exit(code int, output string) Program {
	return func(rt *Runtime, args []string) (int, string) {
		return code, output
	}
}
