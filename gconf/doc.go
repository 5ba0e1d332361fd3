/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each package owns a single configuration object, saved under the "_c:<pkg>"
key. It is loaded from the "conf" section of the genesis file and read by the
package whenever it needs it. Packages that can run with defaults use
LoadOrDefault.
*/
package gconf
