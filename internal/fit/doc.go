// Package fit adapts Garmin FIT activity files to the handful of messages a
// dive log needs.
//
// Wire decoding is done by github.com/muktihari/fit, which validates header
// and file CRCs and handles compressed timestamps, both architectures,
// component expansion, developer fields, and chained files. Decode reduces
// each decoded activity to a File holding file_id, session, record, and event
// values with depths in metres and timestamps in UTC.
package fit
