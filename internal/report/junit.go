// Copyright (c) 2022-2024 Intel Corporation
// All rights reserved.
// SPDX-License-Identifier: BSD-3-Clause

package report

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/Wythwool/bootattestor/internal/differ"
	"github.com/Wythwool/bootattestor/internal/policy"
)

// RenderJUnit renders findings as a single JUnit-style <testsuite>: one
// <testcase> per finding (a passing placeholder case when there are
// none), with a <failure> child whenever the finding's severity rank
// meets or exceeds failOn's rank. failOn "none" ranks above every real
// severity (policy.Rank["none"] == 6), so no failure is ever emitted.
func RenderJUnit(findings []differ.Finding, failOn string) (string, error) {
	threshold, ok := policy.Rank[failOn]
	if !ok {
		threshold = policy.Rank[string(policy.SeverityMedium)]
	}

	doc := etree.NewDocument()
	suite := doc.CreateElement("testsuite")
	suite.CreateAttr("name", "bootattestor")
	tests := len(findings)
	if tests < 1 {
		tests = 1
	}
	suite.CreateAttr("tests", fmt.Sprintf("%d", tests))

	if len(findings) == 0 {
		tc := suite.CreateElement("testcase")
		tc.CreateAttr("classname", "attestation")
		tc.CreateAttr("name", "baseline")
	} else {
		for _, f := range findings {
			tc := suite.CreateElement("testcase")
			tc.CreateAttr("classname", f.Kind)
			tc.CreateAttr("name", f.ID)
			if policy.Rank[string(f.Severity)] >= threshold {
				failure := tc.CreateElement("failure")
				failure.CreateAttr("message", f.Message)
				failure.SetText(fmt.Sprintf("%s:%s:%s", f.Kind, f.ID, f.Severity))
			}
		}
	}

	return doc.WriteToString()
}
