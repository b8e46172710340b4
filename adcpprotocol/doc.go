// Package adcpprotocol provides a Go client for ADCP, the line-oriented
// text control protocol spoken by networked projectors and displays over
// TCP (default port 53595).
//
// # Protocol Overview
//
// Every message in both directions is a single ASCII line terminated by
// CRLF. Immediately after the TCP connection is accepted the device sends
// one challenge line:
//
//	SRV: NOKEY                     no authentication required
//	SRV: 3f2a9c01                  opaque nonce, authentication required
//
// When a nonce is issued the client answers with the lowercase hex SHA-256
// digest of nonce+password and the device replies with exactly "OK" (any
// other text means the password was rejected). Thereafter the session is a
// strict request/reply exchange:
//
//	CLI: power "on"
//	SRV: ok
//	CLI: power_status ?
//	SRV: "on"
//	CLI: bogus ?
//	SRV: err_cmd
//
// A reply of "ok" is an acknowledgment, a reply starting with "err" is an
// error, a reply that decodes as JSON is a structured value and anything
// else is returned verbatim.
//
// # Basic Usage
//
//	client, err := adcpprotocol.Connect(ctx, adcpprotocol.Config{
//	    Host:     "192.168.0.10",
//	    Password: "secret",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	if err := client.SetPower(ctx, adcpprotocol.PowerOn); err != nil {
//	    log.Fatal(err)
//	}
//
//	reply, err := client.Send("modelname ?")
//
// # Failure Semantics
//
// A timeout, a closed socket or an "err" reply closes the session: every
// later Send fails with ErrNotConnected without touching the network.
// Nothing is retried and the client never reconnects on its own. Call
// Connect or ConnectWithContext on the same Client to open a new session.
//
// # Thread Safety
//
// A Client runs one exchange at a time. Calling Send while another Send is
// in flight fails with ErrExchangeInProgress. Independent clients share no
// state.
package adcpprotocol
