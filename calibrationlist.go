/*
Calibration list

Calibrations in order they were made. Old at low indexes.
Local clock is not monotonic here, it may be stepped back when found wrong
*/

package timeadjuster

import (
	"fmt"
	"strings"
)

type CalibrationList []Calibration

//Len number of calibrations in list
func (e CalibrationList) Len() int {
	return len(e)
}

//Latest returns last calibration
func (e CalibrationList) Latest() (Calibration, bool) {
	if len(e) == 0 {
		return Calibration{}, false
	}
	return e[len(e)-1], true
}

//Unsnapped picks calibrations where local clock was considered wrong
func (e CalibrationList) Unsnapped() CalibrationList {
	result := CalibrationList{}
	for _, c := range e {
		if !c.Snapped() {
			result = append(result, c)
		}
	}
	return result
}

//Since picks calibrations done at or after local time t
func (e CalibrationList) Since(t EpochMs) CalibrationList {
	result := CalibrationList{}
	for _, c := range e {
		if t <= c.LocalNow {
			result = append(result, c)
		}
	}
	return result
}

//String representation with newline at end
func (e CalibrationList) String() string {
	var sb strings.Builder
	for _, c := range e {
		sb.WriteString(c.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

//ParseCalibrationList parses from raw byte array. Check length validity
func ParseCalibrationList(raw []byte) (CalibrationList, error) {
	if len(raw)%RECORDSIZE_CALIBRATION != 0 {
		return CalibrationList{}, fmt.Errorf("must be multiple of %v (len=%v)", RECORDSIZE_CALIBRATION, len(raw))
	}

	result := make(CalibrationList, len(raw)/RECORDSIZE_CALIBRATION)
	for i := range result {
		var errParse error
		arr := raw[i*RECORDSIZE_CALIBRATION : (i+1)*RECORDSIZE_CALIBRATION]
		result[i], errParse = ParseCalibration(arr)
		if errParse != nil {
			return result, errParse
		}
	}
	return result, nil
}
