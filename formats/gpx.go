package formats

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Placeholder track point metadata. Viewers want these fields; their values are not meaningful.
const (
	gpxElevation = "844.629"
	gpxTime      = "2022-10-30T11:25:56Z"
	gpxSpeed     = "0.000"
	gpxSat       = "11"
)

const gpxHeader = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.0"
     creator="BasicAirData GPS Logger 3.1.7"
     xmlns="http://www.topografix.com/GPX/1/0"
     xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
     xsi:schemaLocation="http://www.topografix.com/GPX/1/0 http://www.topografix.com/GPX/1/0/gpx.xsd">
<name>GPS Logger 20221030-132554</name>
<desc>%s</desc>
<time>2022-11-02T09:50:04Z</time>

<trk>
 <name>Track 1</name>
`

// WriteGPX writes a GPX 1.0 document with one track segment per ring.
// Coordinates are written exactly as received.
func WriteGPX(w io.Writer, name string, rings Rings) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, gpxHeader, escape(name))
	for points, err := range rings {
		if err != nil {
			return err
		}
		fmt.Fprintln(bw, " <trkseg>")
		for p := range points {
			fmt.Fprintf(bw, `  <trkpt lat="%s" lon="%s"><ele>%s</ele><time>%s</time><speed>%s</speed><sat>%s</sat></trkpt>`+"\n",
				p.LatString(), p.LonString(), gpxElevation, gpxTime, gpxSpeed, gpxSat)
		}
		fmt.Fprintln(bw, " </trkseg>")
	}
	fmt.Fprintln(bw, "</trk>")
	fmt.Fprintln(bw, "</gpx>")
	return bw.Flush()
}

func escape(s string) string {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}
