// Package services implements the driving ports: settings resolution,
// the reader registry and factory, document assembly and the batch loader.
package services
