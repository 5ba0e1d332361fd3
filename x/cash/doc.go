/*
Package cash keeps track of the value held by every address.

Value attached to a call is moved from the executing account to the call
target before the target handler runs. Safes, key holders and contracts all
hold value the same way, keyed by their address.
*/
package cash
