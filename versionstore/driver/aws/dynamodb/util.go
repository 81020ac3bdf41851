package dynamodb

import (
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// unmarshalVersion returns the schema version stored in a version item.
func unmarshalVersion(item map[string]types.AttributeValue) (int, error) {
	attr, ok := item[versionAttr]
	if !ok {
		return 0, fmt.Errorf("version item is corrupt: missing %q attribute", versionAttr)
	}

	n, ok := attr.(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf(
			"version item is corrupt: %q attribute should be a number, not %T",
			versionAttr,
			attr,
		)
	}

	v, err := strconv.Atoi(n.Value)
	if err != nil {
		return 0, fmt.Errorf("version item is corrupt: %q attribute is not an integer: %w", versionAttr, err)
	}

	return v, nil
}
