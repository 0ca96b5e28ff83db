// Package secrets obtains the password handed to the transformation binary.
//
// The secret comes either from the invocation arguments or from an
// interactive prompt with echo disabled. Passing the secret as an argument
// is convenient for scripting but leaves it in shell history and visible in
// the process list; prompting avoids both.
//
// The secret is never written to disk by stowaway. It is, however, passed
// to the transformation binary as a command-line argument inside the
// container, because that is the binary's calling convention.
package secrets
