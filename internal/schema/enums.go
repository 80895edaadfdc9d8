package schema

import "github.com/danmuck/cdrdecode/internal/primitive"

var (
	CallPosition = primitive.EnumTable{
		0: "valueUsedForAllCallsToDetermineIfOutputToTakePlace",
		1: "callHasReachedCongestionOrBusyState",
		2: "callHasOnlyReachedThroughConnection",
		3: "answerHasBeenReceived",
	}

	ChargedParty = primitive.EnumTable{
		0: "chargingOfCallingSubscriber",
		1: "chargingOfCalledSubscriber",
		2: "noCharging",
	}

	DisconnectingParty = primitive.EnumTable{
		0: "callingPartyRelease",
		1: "calledPartyRelease",
		2: "networkRelease",
	}

	TariffSwitchInd = primitive.EnumTable{
		0: "noTariffSwitch",
		1: "tariffSwitchAfterStartOfCharging",
		2: "tariffSwitchBeforeStartOfCharging",
	}

	TypeOfCallingSubscriber = primitive.EnumTable{
		1: "ordinarySubscriber",
		2: "subscriberWithPriority",
		3: "dataCall",
		4: "testCall",
		5: "payphone",
	}

	RadioChannelProperty = primitive.EnumTable{
		0: "halfRateChannel",
		1: "fullRateChannel",
		2: "dualRateHalfRatePreferred",
		3: "dualRateFullRatePreferred",
	}

	SubscriptionType = primitive.EnumTable{
		0: "postpaid",
		1: "prepaid",
		2: "hybrid",
	}

	TypeOfSignalling = primitive.EnumTable{
		0: "iSUPIsNotAppliedAllTheWay",
		1: "iSUPIsAppliedAllTheWay",
		2: "unknownSignalling",
	}

	SMSResult = primitive.EnumTable{
		0: "successful",
		1: "unsuccessfulDeliveryAttempt",
		2: "memoryCapacityExceeded",
		3: "subscriberAbsent",
	}

	MessageTypeIndicator = primitive.EnumTable{
		0: "sMSdeliverSCtoMS",
		1: "sMSsubmitMStoSC",
		2: "sMSstatusReportSCtoMS",
	}

	// TeleServiceCode follows the GSM MAP teleservice code points.
	TeleServiceCode = primitive.EnumTable{
		0x00: "allTeleservices",
		0x10: "allSpeechTransmissionServices",
		0x11: "telephony",
		0x12: "emergencyCalls",
		0x20: "allShortMessageServices",
		0x21: "shortMessageMT-PP",
		0x22: "shortMessageMO-PP",
		0x60: "allFacsimileTransmissionServices",
		0x61: "facsimileGroup3AndAlterSpeech",
		0x62: "automaticFacsimileGroup3",
		0x63: "facsimileGroup4",
		0x70: "allDataTeleservices",
		0x80: "allTeleservices-ExeptSMS",
		0x91: "autoSpeechGroupCall",
		0x92: "voiceBroadcastCall",
	}

	// BearerServiceCode follows the GSM MAP bearer service code points.
	BearerServiceCode = primitive.EnumTable{
		0x00: "allBearerServices",
		0x10: "allDataCDA-Services",
		0x11: "dataCDA-300bps",
		0x12: "dataCDA-1200bps",
		0x13: "dataCDA-1200-75bps",
		0x14: "dataCDA-2400bps",
		0x15: "dataCDA-4800bps",
		0x16: "dataCDA-9600bps",
		0x17: "general-dataCDA",
		0x18: "allDataCDS-Services",
		0x1a: "dataCDS-1200bps",
		0x1c: "dataCDS-2400bps",
		0x1d: "dataCDS-4800bps",
		0x1e: "dataCDS-9600bps",
		0x1f: "general-dataCDS",
		0x20: "allPadAccessCA-Services",
		0x30: "allDataPDS-Services",
	}
)
