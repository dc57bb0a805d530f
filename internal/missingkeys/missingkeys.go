// Package missingkeys finds object keys that exist in only one of two JSON
// documents.
package missingkeys

import (
	"github.com/mcncl/jsoncmp/internal/keypath"
	"github.com/mcncl/jsoncmp/internal/models"
)

// Report lists key paths present on one side only.
// MissingInLeft holds keys found under right but absent from left.
type Report struct {
	MissingInLeft  []string `json:"missing_in_left"`
	MissingInRight []string `json:"missing_in_right"`
}

// Empty reports whether both lists are empty
func (r Report) Empty() bool {
	return len(r.MissingInLeft) == 0 && len(r.MissingInRight) == 0
}

// List returns the named list
func (r Report) List(side models.Side) []string {
	if side == models.Left {
		return r.MissingInLeft
	}
	return r.MissingInRight
}

// Collect walks both documents wherever they are comparable containers.
// It works independently of the diff tree. Paths follow document order:
// right's insertion order for MissingInLeft, left's for MissingInRight.
func Collect(left, right models.JSONValue) Report {
	c := &collector{
		report: Report{
			MissingInLeft:  []string{},
			MissingInRight: []string{},
		},
	}
	c.walk(left, right, nil)
	return c.report
}

type collector struct {
	report Report
}

func (c *collector) walk(left, right models.JSONValue, path keypath.Path) {
	if !models.IsContainer(left) || !models.IsContainer(right) {
		return
	}

	leftArr, leftIsArr := left.(models.JSONArray)
	rightArr, rightIsArr := right.(models.JSONArray)
	if leftIsArr && rightIsArr {
		// trailing elements of the longer array are not explored
		shared := min(len(leftArr), len(rightArr))
		for i := 0; i < shared; i++ {
			c.walk(leftArr[i], rightArr[i], path.Append(keypath.Index(i)))
		}
		return
	}

	leftObj, leftIsObj := left.(*models.JSONObject)
	rightObj, rightIsObj := right.(*models.JSONObject)
	if !leftIsObj || !rightIsObj {
		return
	}

	for _, key := range rightObj.Keys() {
		child := path.Append(keypath.Key(key))
		lv, ok := leftObj.Get(key)
		if !ok {
			c.report.MissingInLeft = append(c.report.MissingInLeft, child.String())
			continue
		}
		rv, _ := rightObj.Get(key)
		c.walk(lv, rv, child)
	}

	for _, key := range leftObj.Keys() {
		if !rightObj.Has(key) {
			c.report.MissingInRight = append(c.report.MissingInRight, path.Append(keypath.Key(key)).String())
		}
	}
}
