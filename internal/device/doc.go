/*
Package device talks to a FarmBeats device over its local HTTP API.

The device serves JSON readings (relay, soil moisture, temperature and
humidity, sunlight, buttons) and a history feed of stored readings. Relay
state is changed with a POST to /relay.
*/
package device
